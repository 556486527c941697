package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("email", "is required", nil))
	assert.Equal(t, "validation failed: email is required", errs.Error())

	errs = append(errs, *NewValidationError("semester", "must be a valid semester (1st through 8th)", "9th"))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("code", "must be a six digit code", "reset_code", "12ab56")

	assert.Equal(t, "code", err.Field)
	assert.Equal(t, "reset_code", err.Rule)
	assert.Equal(t, "12ab56", err.Value)
	assert.Equal(t, "validation error on field 'code': must be a six digit code", err.Error())
}

func TestToValidationErrors(t *testing.T) {
	type loginForm struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}

	err := validator.New().Struct(loginForm{Email: "not-an-email", Password: "pw"})
	require.Error(t, err)

	converted := ToValidationErrors(err)
	require.Len(t, converted, 2)

	assert.Equal(t, "Email", converted[0].Field)
	assert.Equal(t, "must be a valid email address", converted[0].Message)
	assert.Equal(t, "email", converted[0].Rule)

	assert.Equal(t, "Password", converted[1].Field)
	assert.Equal(t, "must be at least 6", converted[1].Message)
	assert.Equal(t, "min", converted[1].Rule)
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	converted := ToValidationErrors(assert.AnError)
	assert.Empty(t, converted)
}
