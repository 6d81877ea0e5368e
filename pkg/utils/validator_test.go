package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"oneof=Manager Employee"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(signupInput{Email: "nope", Password: "abc", Role: "Owner"})

	assert.Len(t, errs, 4)
	assert.Contains(t, errs, "Name")
	assert.Contains(t, errs, "Email")
	assert.Contains(t, errs, "Password")
	assert.Contains(t, errs, "Role")

	assert.Empty(t, ValidateStruct(signupInput{Name: "Bob", Email: "bob@x.com", Password: "secret1", Role: "Manager"}))
}

func TestValidatePartial(t *testing.T) {
	errs := ValidatePartial(signupInput{Email: "nope"}, "Name")
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "Name")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("a@x.com", "required,email"))
	assert.Error(t, ValidateVar("a@", "required,email"))
}

func TestFormatValidationErrors(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{
		"b": "second",
		"a": "first",
	})
	assert.Equal(t, "a: first; b: second", msg)
	assert.Empty(t, FormatValidationErrors(nil))
}
