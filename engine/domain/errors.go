package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline entry-point failures.
var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrHomeUnavailable = errors.New("home page unavailable")
	ErrCompanyNotFound = errors.New("company not found")
	ErrEmptyQuery      = errors.New("empty query")
	ErrNotConfigured   = errors.New("store or embedder not configured")
)

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
