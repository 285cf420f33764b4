package utils

import (
	"github.com/go-playground/validator/v10"
)

// Validate checks request payload structs at the boundary, before any
// business logic runs.
var Validate = validator.New(validator.WithRequiredStructEnabled())

// ValidatePayload returns the first human-readable violation, or nil.
func ValidatePayload(payload any) error {
	return Validate.Struct(payload)
}
