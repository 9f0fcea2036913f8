// Package validation checks typed request structs with go-playground/validator
// and reports failures as field-scoped messages.
//
// Rules live in `validate:"..."` struct tags. Field names in messages are the
// JSON names of the fields, so clients see the same keys they sent.
package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/user/placereview-go/apperror"
)

// Message used for every rejected attribute set.
const failedMessage = "validation failed"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank rejects strings made only of whitespace.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// maxbytes bounds the encoded length of a string; max counts characters.
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("maxbytes: bad parameter %q", fl.Param()))
	}
	return len(fl.Field().String()) <= limit
}

// Errors is an ordered list of field errors. The zero value means "valid".
type Errors []apperror.FieldError

// Add records a message for field.
func (e Errors) Add(field, message string) Errors {
	return append(e, apperror.FieldError{Field: field, Message: message})
}

// Has reports whether field already has a message.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when there are no errors, otherwise a ValidationError.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return apperror.NewValidationError(failedMessage, e...)
}

// Struct validates s against its struct tags.
func Struct(s interface{}) Errors {
	return collect(validate.Struct(s), "")
}

// Var validates a single value against tag and reports failures under field.
func Var(field string, value interface{}, tag string) Errors {
	return collect(validate.Var(value, tag), field)
}

func collect(err error, field string) Errors {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: a programming mistake, not bad input.
		panic(err)
	}

	var out Errors
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		out = out.Add(name, message(fe))
	}
	return out
}

// message renders a validator failure in the wording API clients expect.
func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "notblank":
		return "can't be blank"
	case "email":
		return "is invalid"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("is too long (maximum is %s bytes)", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return "is invalid"
	}
}
