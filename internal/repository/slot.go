// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
)

// Well-known record names.
const (
	ContactsKey   = "contacts_db"
	SessionKey    = "auth_user"
	SigningKeyKey = "session_sign_key" // HMAC key for session tokens
)

// Slot is a named durable record store. Each record is read and written as a whole.
type Slot interface {
	// Get returns the record value, or errs.ErrNotFound when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the record value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes the record; removing an absent record is not an error.
	Remove(ctx context.Context, key string) error
}
