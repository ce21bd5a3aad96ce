// Package sealed wraps a repository.Slot so every record is encrypted at rest.
package sealed

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/contactbook/internal/crypto"
	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/repository"
)

// SaltKey names the record holding the Argon2id salt. It is stored in clear.
const SaltKey = "sealed_salt"

// ErrWrongPassphrase is returned when a record cannot be opened with the derived key.
var ErrWrongPassphrase = errors.New("sealed: wrong passphrase or corrupted record")

// Slot encrypts values before delegating to the inner slot.
type Slot struct {
	inner repository.Slot
	key   []byte
}

// New loads (or creates on first use) the salt in inner and derives the key.
func New(ctx context.Context, inner repository.Slot, passphrase string) (*Slot, error) {
	if passphrase == "" {
		return nil, errors.New("sealed: empty passphrase")
	}
	salt, err := inner.Get(ctx, SaltKey)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		if salt, err = crypto.RandBytes(crypto.SaltLen); err != nil {
			return nil, err
		}
		if err := inner.Set(ctx, SaltKey, salt); err != nil {
			return nil, fmt.Errorf("sealed: store salt: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("sealed: load salt: %w", err)
	}
	return &Slot{inner: inner, key: crypto.DeriveKey([]byte(passphrase), salt)}, nil
}

// Get opens the stored record.
func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	pt, err := crypto.Open(s.key, []byte(key), b)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

// Set seals value and stores it.
func (s *Slot) Set(ctx context.Context, key string, value []byte) error {
	ct, err := crypto.Seal(s.key, []byte(key), value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, ct)
}

// Remove delegates to the inner slot.
func (s *Slot) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}
