// Package store implements the contact collection on top of a durable slot.
//
// The whole collection lives in one JSON record (repository.ContactsKey).
// Every mutation is a read-modify-write of that record; concurrent writers
// within the process are serialized, across processes the last write wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/model"
	"github.com/and161185/contactbook/internal/query"
	"github.com/and161185/contactbook/internal/repository"
)

// Store implements repository.ContactRepository.
type Store struct {
	slot  repository.Slot
	log   *zap.Logger
	now   func() time.Time
	newID func() (string, error)

	mu sync.Mutex
}

var _ repository.ContactRepository = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(gen func() (string, error)) Option { return func(s *Store) { s.newID = gen } }

// New constructs a Store over slot.
func New(slot repository.Slot, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		log:   zap.NewNop(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewID,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// NewID returns a UUIDv7: a millisecond timestamp followed by random bits,
// so ids created in the same millisecond still differ.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// load reads the collection. An absent record is an empty collection.
func (s *Store) load(ctx context.Context) ([]model.Contact, error) {
	b, err := s.slot.Get(ctx, repository.ContactsKey)
	if errors.Is(err, errs.ErrNotFound) {
		return []model.Contact{}, nil
	}
	if err != nil {
		return nil, errs.Persistence("load contacts", err)
	}
	var out []model.Contact
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, errs.Persistence("decode contacts", err)
	}
	if out == nil {
		out = []model.Contact{}
	}
	sortByUpdated(out)
	return out, nil
}

func (s *Store) save(ctx context.Context, contacts []model.Contact) error {
	b, err := json.Marshal(contacts)
	if err != nil {
		return errs.Persistence("encode contacts", err)
	}
	if err := s.slot.Set(ctx, repository.ContactsKey, b); err != nil {
		return errs.Persistence("save contacts", err)
	}
	return nil
}

func sortByUpdated(cs []model.Contact) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].UpdatedAt.After(cs[j].UpdatedAt) })
}

// List returns every contact, most recently updated first. An unreadable
// collection is logged and reported as empty.
func (s *Store) List(ctx context.Context) ([]model.Contact, error) {
	cs, err := s.load(ctx)
	if err != nil {
		s.log.Warn("contacts unreadable, treating as empty", zap.Error(err))
		return []model.Contact{}, nil
	}
	return cs, nil
}

// GetByID returns the contact with id or errs.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	cs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cs {
		if cs[i].ID == id {
			c := cs[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("contact %s: %w", id, errs.ErrNotFound)
}

// Create assigns an id and timestamps, merges in over defaults and puts the
// new contact at the front of the collection.
func (s *Store) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	now := s.now()
	c := model.Contact{Category: model.CategoryOther, Tags: []string{}}
	c.Apply(in)
	c.ID = id
	c.CreatedAt, c.UpdatedAt, c.LastContactDate = now, now, now

	if err := s.save(ctx, append([]model.Contact{c}, cs...)); err != nil {
		return nil, err
	}
	s.log.Info("created contact", zap.String("id", c.ID))
	return &c, nil
}

// Update merges present fields of in over the stored contact. The id never
// changes and UpdatedAt never moves backwards.
func (s *Store) Update(ctx context.Context, id string, in model.ContactInput) (*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range cs {
		if cs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("contact %s: %w", id, errs.ErrNotFound)
	}

	c := cs[idx]
	c.Apply(in)
	c.ID = id
	if now := s.now(); now.After(c.UpdatedAt) {
		c.UpdatedAt = now
	}
	cs[idx] = c

	if err := s.save(ctx, cs); err != nil {
		return nil, err
	}
	s.log.Info("updated contact", zap.String("id", id))
	return &c, nil
}

// Delete removes the contact with id. Deleting an absent id succeeds
// without touching storage.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := cs[:0]
	for _, c := range cs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cs) {
		return nil
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.log.Info("deleted contact", zap.String("id", id))
	return nil
}

// Search returns contacts matching q case-insensitively, in List order.
func (s *Store) Search(ctx context.Context, q string) ([]model.Contact, error) {
	cs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Contact{}
	for _, c := range cs {
		if query.Matches(c, q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Seed writes contacts as the initial collection when none exists yet.
// Missing ids are generated. It reports whether anything was written.
func (s *Store) Seed(ctx context.Context, contacts []model.Contact) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.slot.Get(ctx, repository.ContactsKey)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, errs.ErrNotFound):
		return false, errs.Persistence("load contacts", err)
	}

	seed := make([]model.Contact, len(contacts))
	copy(seed, contacts)
	for i := range seed {
		if seed[i].ID != "" {
			continue
		}
		if seed[i].ID, err = s.newID(); err != nil {
			return false, fmt.Errorf("generate id: %w", err)
		}
	}
	sortByUpdated(seed)
	if err := s.save(ctx, seed); err != nil {
		return false, err
	}
	s.log.Info("initialized contact database with sample data", zap.Int("count", len(seed)))
	return true, nil
}
