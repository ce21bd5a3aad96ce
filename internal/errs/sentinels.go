// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinels across repository/store/service layers.
var (
	// ErrNotFound indicates the requested entity or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPersistence indicates a durable read or write failed.
	ErrPersistence = errors.New("persistence failure")

	// ErrValidation indicates user-fixable input problems; see ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated indicates a contact operation without an active session.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrAuth is the parent of every authentication form error.
	ErrAuth = errors.New("auth")
)

// Authentication form errors. Each one wraps ErrAuth.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuth)
	ErrMissingField       = fmt.Errorf("%w: all fields are required", ErrAuth)
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords do not match", ErrAuth)
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least 6 characters", ErrAuth)
)

// ValidationError carries every violated rule message, in check order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, ", ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Persistence wraps a backend failure so that errors.Is(err, ErrPersistence) holds.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
