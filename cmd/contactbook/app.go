package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/and161185/contactbook/internal/config"
	"github.com/and161185/contactbook/internal/crypto"
	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/migrate"
	"github.com/and161185/contactbook/internal/repository"
	"github.com/and161185/contactbook/internal/repository/filesystem"
	"github.com/and161185/contactbook/internal/repository/memory"
	"github.com/and161185/contactbook/internal/repository/postgres"
	"github.com/and161185/contactbook/internal/repository/sealed"
	"github.com/and161185/contactbook/internal/repository/sqlite"
	"github.com/and161185/contactbook/internal/service"
	"github.com/and161185/contactbook/internal/store"
)

// app is the wired application for one CLI invocation.
type app struct {
	log      *zap.Logger
	store    *store.Store
	sessions *service.SessionManager
	contacts *service.ContactService
	close    func() error
}

// openApp opens the configured backend, restores any saved session and
// builds the services on top.
func openApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	slot, closeSlot, err := openSlot(ctx, cfg)
	if err != nil {
		return nil, err
	}
	abort := func(err error) (*app, error) {
		_ = closeSlot()
		return nil, err
	}

	if cfg.Passphrase != "" {
		s, err := sealed.New(ctx, slot, cfg.Passphrase)
		if err != nil {
			return abort(err)
		}
		slot = s
	}

	key, err := signingKey(ctx, slot)
	if err != nil {
		return abort(err)
	}

	sessions := service.NewSessionManager(slot, key, cfg.SessionTTL, log.Named("session"))
	if _, err := sessions.Restore(ctx); err != nil {
		return abort(err)
	}
	st := store.New(slot, store.WithLogger(log.Named("store")))

	return &app{
		log:      log,
		store:    st,
		sessions: sessions,
		contacts: service.NewContactService(st, sessions, log.Named("contacts")),
		close:    closeSlot,
	}, nil
}

func openSlot(ctx context.Context, cfg config.Config) (repository.Slot, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nop, nil

	case config.BackendFile:
		s, err := filesystem.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, nop, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o700); err != nil {
			return nil, nil, err
		}
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.BackendPostgres:
		if err := migrate.Up(ctx, cfg.DSN); err != nil {
			return nil, nil, fmt.Errorf("migrate up: %w", err)
		}
		db, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSlotRepo(db), func() error { db.Close(); return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// signingKey loads the session signing key, generating it on first use.
func signingKey(ctx context.Context, slot repository.Slot) ([]byte, error) {
	key, err := slot.Get(ctx, repository.SigningKeyKey)
	if err == nil && len(key) >= crypto.KeyLen {
		return key, nil
	}
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, errs.Persistence("load signing key", err)
	}
	if key, err = crypto.RandBytes(crypto.KeyLen); err != nil {
		return nil, err
	}
	if err := slot.Set(ctx, repository.SigningKeyKey, key); err != nil {
		return nil, errs.Persistence("save signing key", err)
	}
	return key, nil
}
