package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Email       string  `validate:"required,email"`
	Password    string  `validate:"required,min=8"`
	DisplayName *string `validate:"omitempty,max=100"`
}

func TestValidate_Valid(t *testing.T) {
	name := "Ada"
	err := Validate(registerForm{
		Email:       "ada@example.com",
		Password:    "long enough password",
		DisplayName: &name,
	})

	assert.NoError(t, err)
}

func TestValidate_OptionalFieldMayBeNil(t *testing.T) {
	err := Validate(registerForm{
		Email:    "ada@example.com",
		Password: "long enough password",
	})

	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(registerForm{
		Email:    "not-an-email",
		Password: "short",
	})

	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
}

func TestValidate_RequiredFields(t *testing.T) {
	err := Validate(registerForm{})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Email"])
	assert.Equal(t, "is required", fields["Password"])
	assert.NotContains(t, fields, "DisplayName")
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(registerForm{Email: "bad", Password: "pw"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Password")
}
