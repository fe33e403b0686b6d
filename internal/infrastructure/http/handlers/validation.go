package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation limits.
const (
	MaxEmailLength = 254
	MaxFormBytes   = 64 << 10
)

var validate = validator.New()

// SanitizeEmail trims and lowercases email; returns empty if invalid length.
func SanitizeEmail(email string) string {
	s := strings.TrimSpace(strings.ToLower(email))
	if len(s) > MaxEmailLength {
		return ""
	}
	return s
}

// firstInvalidField names the first failing field of a validator error, or "".
func firstInvalidField(err error) string {
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		return strings.ToLower(ve[0].Field())
	}
	return ""
}
