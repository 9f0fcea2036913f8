// Package apperror defines the application's error vocabulary.
// Every service returns *AppError values so that the HTTP layer can map them
// onto status codes and a single JSON error shape without inspecting messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the category of an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents a rejected attribute set (field-level messages in Fields)
	ValidationError
	// BadRequestError represents a request that could not be decoded
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
)

// FieldError describes why a single attribute was rejected.
type FieldError struct {
	// The JSON name of the rejected attribute
	// example: "email"
	Field string `json:"field" example:"email"`
	// A human readable reason
	// example: "is invalid"
	Message string `json:"message" example:"is invalid"`
}

// AppError is the error type returned across package boundaries.
// Err keeps the underlying cause for logs; it is never sent to clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  []FieldError
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, e.fieldSummary())
	}
	return e.Message
}

func (e *AppError) fieldSummary() string {
	s := ""
	for i, f := range e.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.Field + " " + f.Message
	}
	return s
}

// Unwrap returns the underlying error so errors.Is / errors.As can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError:
		return http.StatusInternalServerError
	case ConfigError:
		return http.StatusInternalServerError
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusUnprocessableEntity
	case BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a ValidationError carrying the given field errors.
func NewValidationError(message string, fields ...FieldError) *AppError {
	e := NewAppError(ValidationError, message, nil)
	e.Fields = append(e.Fields, fields...)
	return e
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// ErrorResponse represents the error payload returned to API clients.
type ErrorResponse struct {
	Error  string       `json:"error" example:"validation failed"`
	Fields []FieldError `json:"fields,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing Message and Fields are included, not the underlying Err.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Fields: e.Fields}
}

// FromError returns err as an *AppError if it is one anywhere in its chain.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}
