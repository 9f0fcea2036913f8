package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/placereview-go/apperror"
)

type sample struct {
	Email   string `json:"email" validate:"required,email"`
	Comment string `json:"comment" validate:"notblank"`
	Rating  int    `json:"rating" validate:"min=1,max=10"`
	Secret  string `json:"secret" validate:"omitempty,min=6,max=8"`
	Ignored string `json:"-"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(sample{Email: "a@example.com", Comment: "fine", Rating: 5})
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestStructMessages(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		field   string
		message string
	}{
		{"missing email", sample{Comment: "x", Rating: 1}, "email", "can't be blank"},
		{"bad email", sample{Email: "nope", Comment: "x", Rating: 1}, "email", "is invalid"},
		{"empty comment", sample{Email: "a@b.co", Rating: 1}, "comment", "can't be blank"},
		{"blank comment", sample{Email: "a@b.co", Comment: "   ", Rating: 1}, "comment", "can't be blank"},
		{"rating low", sample{Email: "a@b.co", Comment: "x", Rating: 0}, "rating", "must be greater than or equal to 1"},
		{"rating high", sample{Email: "a@b.co", Comment: "x", Rating: 11}, "rating", "must be less than or equal to 10"},
		{"short secret", sample{Email: "a@b.co", Comment: "x", Rating: 1, Secret: "abc"}, "secret", "is too short (minimum is 6 characters)"},
		{"long secret", sample{Email: "a@b.co", Comment: "x", Rating: 1, Secret: "abcdefghij"}, "secret", "is too long (maximum is 8 characters)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(tt.in)
			require.Len(t, errs, 1)
			assert.Equal(t, apperror.FieldError{Field: tt.field, Message: tt.message}, errs[0])
		})
	}
}

func TestVar(t *testing.T) {
	errs := Var("password", "abc", "min=6")
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Field)

	assert.Empty(t, Var("password", "abcdef", "min=6"))
}

func TestVarMaxBytes(t *testing.T) {
	// Eight characters, sixteen bytes.
	accented := "éééééééé"

	assert.Empty(t, Var("password", accented, "max=8"))

	errs := Var("password", accented, "max=8,maxbytes=10")
	require.Len(t, errs, 1)
	assert.Equal(t, apperror.FieldError{Field: "password", Message: "is too long (maximum is 10 bytes)"}, errs[0])

	assert.Empty(t, Var("password", "abcdefghij", "maxbytes=10"))
}

func TestErrorsErr(t *testing.T) {
	var errs Errors
	errs = errs.Add("email", "has already been taken")

	assert.True(t, errs.Has("email"))
	assert.False(t, errs.Has("name"))

	err := errs.Err()
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))

	appErr, _ := apperror.FromError(err)
	assert.Equal(t, []apperror.FieldError{{Field: "email", Message: "has already been taken"}}, appErr.Fields)
}
