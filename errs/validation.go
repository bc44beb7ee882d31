package errs

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// ValidationErr collects every field error of a form submission.
// Fields maps the JSON field name to a human-readable message.
type ValidationErr struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationErr {
	return &ValidationErr{Fields: fields}
}

func (e *ValidationErr) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationErr) Unwrap() error {
	return ErrValidation
}

func (e *ValidationErr) StatusCode() int {
	return http.StatusBadRequest
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
