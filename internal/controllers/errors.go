package controllers

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrZoneRequired = errors.New("price zone could not be resolved from postal code")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError names the offending field and wraps ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NormalizeEmail trims and lower-cases address after checking it parses as a
// bare address.
func NormalizeEmail(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", Invalid("email", "is required")
	}

	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address || parsed.Name != "" {
		return "", Invalid("email", "is not a valid address")
	}

	return strings.ToLower(parsed.Address), nil
}

func Required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", Invalid(field, "is required")
	}
	return value, nil
}
