package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/repository"
)

var _ repository.Slot = (*SlotRepo)(nil)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestSlotRepo_Get_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSlotRepo(db)

	mock.ExpectQuery(`SELECT value FROM kv_records WHERE key=\$1`).
		WithArgs("contacts_db").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

	v, err := r.Get(context.Background(), "contacts_db")
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepo_Get_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSlotRepo(db)

	mock.ExpectQuery(`SELECT value FROM kv_records WHERE key=\$1`).
		WithArgs("auth_user").
		WillReturnError(pgx.ErrNoRows)

	_, err := r.Get(context.Background(), "auth_user")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSlotRepo_Get_DBError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSlotRepo(db)

	mock.ExpectQuery(`SELECT value FROM kv_records`).
		WithArgs("k").
		WillReturnError(errors.New("conn reset"))

	_, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrNotFound)
}

func TestSlotRepo_Set(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSlotRepo(db)

	mock.ExpectExec(`INSERT INTO kv_records \(key, value, updated_at\)`).
		WithArgs("k", []byte("v")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Set(context.Background(), "k", []byte("v")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepo_Set_Error(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSlotRepo(db)

	mock.ExpectExec(`INSERT INTO kv_records`).
		WithArgs("k", []byte("v")).
		WillReturnError(errors.New("disk full"))

	require.Error(t, r.Set(context.Background(), "k", []byte("v")))
}

func TestSlotRepo_Remove_Idempotent(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSlotRepo(db)

	mock.ExpectExec(`DELETE FROM kv_records WHERE key=\$1`).
		WithArgs("k").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM kv_records WHERE key=\$1`).
		WithArgs("k").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, r.Remove(context.Background(), "k"))
	require.NoError(t, r.Remove(context.Background(), "k"))
	require.NoError(t, mock.ExpectationsWereMet())
}
