// Package memory provides an in-process repository.Slot.
package memory

import (
	"context"
	"sync"

	"github.com/and161185/contactbook/internal/errs"
)

// Slot keeps records in a map. Values are copied on the way in and out.
type Slot struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty slot.
func New() *Slot { return &Slot{data: map[string][]byte{}} }

// Get returns a copy of the record value.
func (s *Slot) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (s *Slot) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Remove drops the record.
func (s *Slot) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
