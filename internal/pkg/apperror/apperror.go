// Package apperror defines the error kinds workflows return to controllers.
package apperror

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidationFailed       = errors.New("validation failed")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrDuplicateReview        = errors.New("duplicate review")
	ErrNotFound               = errors.New("not found")
)

// NonFieldKey collects errors that do not belong to a single input.
const NonFieldKey = "__all__"

// FieldErrors maps form field names to a user facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// ValidationError carries per-field messages and matches ErrValidationFailed.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Validation wraps fields into an error, or returns nil when there are none.
func Validation(fields FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Fields extracts the field errors of a validation error, or nil.
func Fields(err error) FieldErrors {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
