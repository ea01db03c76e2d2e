package validator

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound DTOs.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates a request validator with the default tag-based rules
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate runs struct-tag validation on the bound request
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}
