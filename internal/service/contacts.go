package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/model"
	"github.com/and161185/contactbook/internal/query"
	"github.com/and161185/contactbook/internal/repository"
	"github.com/and161185/contactbook/internal/sanitize"
	"github.com/and161185/contactbook/internal/validate"
)

// SessionSource reports the active session; nil means nobody is logged in.
type SessionSource interface {
	Current() *model.Session
}

// ContactService runs submitted forms through sanitize and validate before
// they reach the repository, gates every call on an active session and
// notifies subscribers with the refreshed collection after each change.
type ContactService struct {
	repo     repository.ContactRepository
	sessions SessionSource
	log      *zap.Logger

	mu      sync.Mutex
	subs    map[int]func([]model.Contact)
	nextSub int
}

// NewContactService constructs a ContactService.
func NewContactService(repo repository.ContactRepository, sessions SessionSource, log *zap.Logger) *ContactService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactService{repo: repo, sessions: sessions, log: log, subs: map[int]func([]model.Contact){}}
}

// Subscribe registers fn to receive the collection after every change.
// The returned func unsubscribes.
func (s *ContactService) Subscribe(fn func([]model.Contact)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *ContactService) notify(ctx context.Context) {
	s.mu.Lock()
	fns := make([]func([]model.Contact), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	if len(fns) == 0 {
		return
	}

	cs, err := s.repo.List(ctx)
	if err != nil {
		s.log.Warn("refresh after change", zap.Error(err))
		return
	}
	for _, fn := range fns {
		fn(append([]model.Contact(nil), cs...))
	}
}

func (s *ContactService) authorize() error {
	if s.sessions == nil || s.sessions.Current() == nil {
		return errs.ErrUnauthenticated
	}
	return nil
}

// List returns every contact, most recently updated first.
func (s *ContactService) List(ctx context.Context) ([]model.Contact, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Reload re-reads the collection and pushes it to subscribers.
func (s *ContactService) Reload(ctx context.Context) ([]model.Contact, error) {
	cs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	s.notify(ctx)
	return cs, nil
}

// Get returns one contact.
func (s *ContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Search returns contacts matching q.
func (s *ContactService) Search(ctx context.Context, q string) ([]model.Contact, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, q)
}

// View returns the list filtered by search text and category.
func (s *ContactService) View(ctx context.Context, search string, category model.Category) ([]model.Contact, error) {
	cs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(cs, search, category), nil
}

// Stats summarizes the collection for the dashboard.
func (s *ContactService) Stats(ctx context.Context) (query.Stats, error) {
	cs, err := s.List(ctx)
	if err != nil {
		return query.Stats{}, err
	}
	return query.Summarize(cs), nil
}

// Add sanitizes and validates a submitted form and stores a new contact.
// Invalid input returns *errs.ValidationError and writes nothing.
func (s *ContactService) Add(ctx context.Context, f sanitize.Form) (*model.Contact, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	in := sanitize.Contact(f)
	if err := validate.Contact(in).Err(); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.notify(ctx)
	return c, nil
}

// Edit merges the submitted fields of f into contact id. The merged record
// is validated as a whole before anything is written.
func (s *ContactService) Edit(ctx context.Context, id string, f sanitize.Form) (*model.Contact, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	patch := sanitize.Patch(f)

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := *cur
	merged.Apply(patch)
	if err := validate.Contact(merged.Input()).Err(); err != nil {
		return nil, err
	}

	c, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.notify(ctx)
	return c, nil
}

// Remove deletes contact id; removing an absent id succeeds.
func (s *ContactService) Remove(ctx context.Context, id string) error {
	if err := s.authorize(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}
