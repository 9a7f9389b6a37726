package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrInternal   = errors.New("internal error")

	// ErrInvalidTitle is the kind reported when a title is empty or fails
	// normalization. It wraps ErrValidation so generic validation checks match.
	ErrInvalidTitle = fmt.Errorf("invalid title: %w", ErrValidation)
)

// MsgRequired is the validation message for mandatory fields.
const MsgRequired = "is required"

// MsgMustNotBeEmpty is the validation message for optional fields that were
// provided with an empty value.
const MsgMustNotBeEmpty = "must not be empty"

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
//
// Kind narrows the failure to a specific sentinel (e.g. ErrInvalidTitle). A nil
// Kind means a generic ErrValidation.
type ValidationError struct {
	Fields map[string]string
	Kind   error
}

// NewInvalidTitle returns a *ValidationError of kind ErrInvalidTitle with the
// given message recorded against the "title" field.
func NewInvalidTitle(msg string) *ValidationError {
	return &ValidationError{
		Fields: map[string]string{"title": msg},
		Kind:   ErrInvalidTitle,
	}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	if e.Kind != nil {
		return e.Kind
	}
	return ErrValidation
}
