package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/contactbook/internal/errs"
)

// SlotRepo implements repository.Slot on the kv_records table.
type SlotRepo struct{ db *DB }

// NewSlotRepo constructs a slot repository.
func NewSlotRepo(db *DB) *SlotRepo { return &SlotRepo{db: db} }

// Get selects a record value by key.
func (r *SlotRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_records WHERE key=$1`
	var v []byte
	if err := r.db.Pool.QueryRow(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Set upserts a record value.
func (r *SlotRepo) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_records (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`
	_, err := r.db.Pool.Exec(ctx, q, key, value)
	return err
}

// Remove deletes a record; zero affected rows is fine.
func (r *SlotRepo) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_records WHERE key=$1`
	_, err := r.db.Pool.Exec(ctx, q, key)
	return err
}
