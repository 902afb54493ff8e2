package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrOrderPlaced     = errors.New("order already placed")
	ErrSessionRequired = errors.New("session id is required")
	ErrUnavailable     = errors.New("unavailable")
)

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

// A ValidationError carries field-level messages.
//
// errors.Is(err, ErrValidation) reports true for it.
type ValidationError struct {
	Fields FieldErrors
}

func NewValidationError(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
