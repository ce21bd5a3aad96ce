package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/repository"
	"github.com/and161185/contactbook/internal/repository/memory"
)

type flakySlot struct {
	*memory.Slot
	getErr, setErr, removeErr error
}

var _ repository.Slot = (*flakySlot)(nil)

func (f *flakySlot) Get(ctx context.Context, k string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Slot.Get(ctx, k)
}
func (f *flakySlot) Set(ctx context.Context, k string, v []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Slot.Set(ctx, k, v)
}
func (f *flakySlot) Remove(ctx context.Context, k string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.Slot.Remove(ctx, k)
}

var key = []byte("test-sign-key")

func TestSession_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	slot := &flakySlot{Slot: memory.New()}
	m := NewSessionManager(slot, key, 0, nil)

	if m.State() != StateUnauthenticated || m.Current() != nil {
		t.Fatalf("fresh manager must be unauthenticated")
	}
	if _, err := m.Login(ctx, "", "pw"); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if _, err := m.Login(ctx, "a@b.com", ""); !errors.Is(err, errs.ErrAuth) {
		t.Fatalf("want ErrAuth family, got %v", err)
	}

	s, err := m.Login(ctx, "ann.lee@x.com", "whatever")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Name != "ann.lee" || s.Email != "ann.lee@x.com" || s.ID == "" || s.Token == "" || s.CreatedAt.IsZero() {
		t.Fatalf("bad session: %+v", s)
	}
	if m.State() != StateAuthenticated || m.Current().ID != s.ID {
		t.Fatalf("state=%v current=%+v", m.State(), m.Current())
	}
	if _, err := slot.Get(ctx, repository.SessionKey); err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
}

func TestSession_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewSessionManager(memory.New(), key, 0, nil)

	cases := []struct {
		email, pw, confirm string
		want               error
	}{
		{"", "123456", "123456", errs.ErrMissingField},
		{"a@b.com", "", "123456", errs.ErrMissingField},
		{"a@b.com", "123456", "", errs.ErrMissingField},
		{"a@b.com", "123456", "654321", errs.ErrPasswordMismatch},
		{"a@b.com", "12345", "12345", errs.ErrWeakPassword},
		{"a@b.com", "ééé", "ééé", errs.ErrWeakPassword},
	}
	for _, c := range cases {
		if _, err := m.Register(ctx, c.email, c.pw, c.confirm); !errors.Is(err, c.want) {
			t.Fatalf("Register(%q,%q,%q): want %v, got %v", c.email, c.pw, c.confirm, c.want, err)
		}
		if m.Current() != nil {
			t.Fatalf("failed register must not produce a session")
		}
	}

	s, err := m.Register(ctx, "a@b.com", "123456", "123456")
	if err != nil || s.Name != "a" {
		t.Fatalf("Register ok: %+v %v", s, err)
	}

	if _, err := m.Register(ctx, "a@b.com", "éééééé", "éééééé"); err != nil {
		t.Fatalf("six characters must be accepted: %v", err)
	}
}

func TestSession_RestoreAndLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	slot := memory.New()

	first := NewSessionManager(slot, key, 0, nil)
	s, err := first.Login(ctx, "a@b.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// new process
	second := NewSessionManager(slot, key, 0, nil)
	got, err := second.Restore(ctx)
	if err != nil || got == nil || got.ID != s.ID {
		t.Fatalf("Restore: %+v %v", got, err)
	}
	if second.State() != StateAuthenticated {
		t.Fatalf("state=%v", second.State())
	}

	if err := second.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if second.State() != StateUnauthenticated || second.Current() != nil {
		t.Fatalf("logout must clear session")
	}

	third := NewSessionManager(slot, key, 0, nil)
	if got, err := third.Restore(ctx); err != nil || got != nil {
		t.Fatalf("after logout restore must be empty: %+v %v", got, err)
	}
}

func TestSession_RestoreDiscardsBadData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, raw := range map[string]string{
		"garbage":  "{nope",
		"empty":    "{}",
		"badtoken": `{"id":"1","email":"a@b.com","token":"x.y.z"}`,
		"unsigned": `{"id":"1","email":"a@b.com","name":"a","createdAt":"2024-06-01T09:00:00Z"}`,
	} {
		slot := memory.New()
		_ = slot.Set(ctx, repository.SessionKey, []byte(raw))
		m := NewSessionManager(slot, key, 0, nil)
		got, err := m.Restore(ctx)
		if err != nil || got != nil || m.State() != StateUnauthenticated {
			t.Fatalf("%s: got=%+v err=%v state=%v", name, got, err, m.State())
		}
		if _, err := slot.Get(ctx, repository.SessionKey); !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("%s: bad data must be removed, got %v", name, err)
		}
	}
}

func TestSession_RestoreRejectsForeignKeyAndExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	slot := memory.New()

	issuer := NewSessionManager(slot, []byte("other-key"), 0, nil)
	if _, err := issuer.Login(ctx, "a@b.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	m := NewSessionManager(slot, key, 0, nil)
	if got, _ := m.Restore(ctx); got != nil {
		t.Fatalf("token signed with another key must be rejected")
	}

	short := NewSessionManager(slot, key, time.Minute, nil)
	if _, err := short.Login(ctx, "a@b.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	later := NewSessionManager(slot, key, time.Minute, nil)
	later.now = func() time.Time { return time.Now().Add(time.Hour) }
	if got, _ := later.Restore(ctx); got != nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestSession_StorageFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	slot := &flakySlot{Slot: memory.New(), setErr: errors.New("disk full")}
	m := NewSessionManager(slot, key, 0, nil)

	if _, err := m.Login(ctx, "a@b.com", "pw"); !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
	if m.Current() != nil {
		t.Fatalf("unpersisted login must not authenticate")
	}

	slot.setErr = nil
	if _, err := m.Login(ctx, "a@b.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	slot.removeErr = errors.New("io")
	if err := m.Logout(ctx); !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("want ErrPersistence on logout, got %v", err)
	}
	if m.Current() != nil {
		t.Fatalf("logout must drop the in-memory session regardless")
	}

	slot.getErr = errors.New("io")
	if _, err := m.Restore(ctx); !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("want ErrPersistence on restore, got %v", err)
	}
	if m.State() != StateUnauthenticated {
		t.Fatalf("state=%v", m.State())
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	if StateLoading.String() != "loading" || StateAuthenticated.String() != "authenticated" || StateUnauthenticated.String() != "unauthenticated" {
		t.Fatalf("unexpected state names")
	}
}
