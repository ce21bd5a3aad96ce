package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/repository"
)

var _ repository.Slot = (*Slot)(nil)

func TestSlot_Roundtrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, repository.ContactsKey)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, s.Set(ctx, repository.ContactsKey, []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, repository.ContactsKey, []byte(`[1,2]`)))

	v, err := s.Get(ctx, repository.ContactsKey)
	require.NoError(t, err)
	require.Equal(t, `[1,2]`, string(v))

	require.NoError(t, s.Remove(ctx, repository.ContactsKey))
	require.NoError(t, s.Remove(ctx, repository.ContactsKey))
	_, err = s.Get(ctx, repository.ContactsKey)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSlot_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contacts.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, repository.SessionKey, []byte(`{"id":"x"}`)))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	require.Equal(t, `{"id":"x"}`, string(v))
}
