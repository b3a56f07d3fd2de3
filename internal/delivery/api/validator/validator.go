// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	"github.com/go-playground/validator/v10"
)

// EchoValidator wraps a validator.Validate instance for use as echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

// New creates a validator with struct tag validation enabled.
func New() *EchoValidator {
	return &EchoValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. The raw validator error is returned
// unchanged; handlers decide how to surface it.
func (v *EchoValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
