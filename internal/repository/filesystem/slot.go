// Package filesystem stores each repository.Slot record as a JSON file in a directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/and161185/contactbook/internal/errs"
)

var reKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Slot maps record key K to <dir>/K.json.
type Slot struct {
	dir string
}

// New creates dir (0700) if needed and returns a slot rooted there.
func New(dir string) (*Slot, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Slot{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Slot) Dir() string { return s.dir }

func (s *Slot) path(key string) (string, error) {
	if !reKey.MatchString(key) {
		return "", fmt.Errorf("bad record key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get reads the record file.
func (s *Slot) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.ErrNotFound
	}
	return b, err
}

// Set writes the record through a temp file and rename so readers never
// observe a partially written value.
func (s *Slot) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Remove deletes the record file if it exists.
func (s *Slot) Remove(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
