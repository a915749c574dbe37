// Package errs defines the error kinds surfaced by the risk engine and its collaborators.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed required field. It is always
// returned before any engine state or storage is touched.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidation creates a ValidationError for the given field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// StorageError wraps a failure of the persistence collaborator.
type StorageError struct {
	Op  string
	Err error
}

// NewStorage wraps err as a StorageError for operation op.
func NewStorage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotAuthorizedError is raised by the caller layer when credentials are missing or invalid.
type NotAuthorizedError struct {
	Reason string
}

func (e *NotAuthorizedError) Error() string {
	if e.Reason == "" {
		return "not authorized"
	}
	return "not authorized: " + e.Reason
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsStorage reports whether err carries a StorageError.
func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

// IsNotAuthorized reports whether err carries a NotAuthorizedError.
func IsNotAuthorized(err error) bool {
	var target *NotAuthorizedError
	return errors.As(err, &target)
}
