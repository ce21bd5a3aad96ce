// Package service contains application services for sessions and contacts.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/model"
	"github.com/and161185/contactbook/internal/repository"
)

// MinPasswordLen is the shortest password Register accepts, in characters.
const MinPasswordLen = 6

// State is the authentication state of the process.
type State int

// Session states.
const (
	StateUnauthenticated State = iota
	StateLoading
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionManager holds at most one local session and keeps it in a durable slot.
// Credentials are not checked against any authority.
type SessionManager struct {
	slot    repository.Slot
	signKey []byte
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	state   State
	current *model.Session
}

// NewSessionManager constructs a manager in the unauthenticated state.
// signKey signs session tokens; ttl <= 0 issues tokens that never expire.
func NewSessionManager(slot repository.Slot, signKey []byte, ttl time.Duration, log *zap.Logger) *SessionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{
		slot:    slot,
		signKey: signKey,
		ttl:     ttl,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// State reports the current state.
func (m *SessionManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current returns a copy of the active session, or nil.
func (m *SessionManager) Current() *model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

func (m *SessionManager) set(st State, s *model.Session) {
	m.mu.Lock()
	m.state, m.current = st, s
	m.mu.Unlock()
}

// Restore loads a persisted session. Absent, unparsable, unsigned or unverifiable data
// leaves the manager unauthenticated; bad data is also removed from storage.
// Only a storage read failure is returned as an error.
func (m *SessionManager) Restore(ctx context.Context) (*model.Session, error) {
	m.set(StateLoading, nil)

	b, err := m.slot.Get(ctx, repository.SessionKey)
	if errors.Is(err, errs.ErrNotFound) {
		m.set(StateUnauthenticated, nil)
		return nil, nil
	}
	if err != nil {
		m.set(StateUnauthenticated, nil)
		return nil, errs.Persistence("load session", err)
	}

	var s model.Session
	if err := json.Unmarshal(b, &s); err != nil || s.ID == "" || s.Email == "" {
		m.discard(ctx, "unparsable session", err)
		return nil, nil
	}
	if err := m.verify(s); err != nil {
		m.discard(ctx, "session token rejected", err)
		return nil, nil
	}

	m.set(StateAuthenticated, &s)
	m.log.Debug("session restored", zap.String("email", s.Email))
	return m.Current(), nil
}

func (m *SessionManager) discard(ctx context.Context, why string, cause error) {
	m.log.Warn(why+", discarding", zap.Error(cause))
	if err := m.slot.Remove(ctx, repository.SessionKey); err != nil {
		m.log.Warn("remove session", zap.Error(err))
	}
	m.set(StateUnauthenticated, nil)
}

// Login opens a session for any non-empty email and password.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if email == "" || password == "" {
		return nil, errs.ErrInvalidCredentials
	}
	return m.open(ctx, email)
}

// Register checks the sign-up form and then behaves like Login.
func (m *SessionManager) Register(ctx context.Context, email, password, confirmPassword string) (*model.Session, error) {
	switch {
	case email == "" || password == "" || confirmPassword == "":
		return nil, errs.ErrMissingField
	case password != confirmPassword:
		return nil, errs.ErrPasswordMismatch
	case utf8.RuneCountInString(password) < MinPasswordLen:
		return nil, errs.ErrWeakPassword
	}
	return m.open(ctx, email)
}

func (m *SessionManager) open(ctx context.Context, email string) (*model.Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := m.now()
	s := model.Session{
		ID:        id.String(),
		Email:     email,
		Name:      strings.SplitN(email, "@", 2)[0],
		CreatedAt: now,
	}
	if s.Token, err = m.issue(s.ID, now); err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := m.slot.Set(ctx, repository.SessionKey, b); err != nil {
		return nil, errs.Persistence("save session", err)
	}
	m.set(StateAuthenticated, &s)
	m.log.Info("logged in", zap.String("email", email))
	return m.Current(), nil
}

// Logout clears the session and its durable record. The in-memory session is
// dropped even when storage fails; the storage error is still returned.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.set(StateUnauthenticated, nil)
	if err := m.slot.Remove(ctx, repository.SessionKey); err != nil {
		return errs.Persistence("remove session", err)
	}
	m.log.Info("logged out")
	return nil
}

// issue creates a signed HS256 JWT for the given session id.
func (m *SessionManager) issue(sessionID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signKey)
}

func (m *SessionManager) verify(s model.Session) error {
	if s.Token == "" {
		return errors.New("missing session token")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(s.Token, &claims,
		func(*jwt.Token) (any, error) { return m.signKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return err
	}
	if claims.Subject != s.ID {
		return errors.New("token subject mismatch")
	}
	return nil
}
