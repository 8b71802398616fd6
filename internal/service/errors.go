package service

import (
	"errors"
	"fmt"
)

var (
	ErrInternal       = errors.New("internal server error")
	ErrNotFound       = errors.New("post not found")
	ErrUnauthorized   = errors.New("user is not authorized")
	ErrEmptySearch    = errors.New("search requires at least one filter")
	ErrSchemaOutdated = errors.New("post store does not support soft deletion yet")
)

// ValidationError rejects a request before any store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
