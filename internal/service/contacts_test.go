package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/model"
	"github.com/and161185/contactbook/internal/repository"
	"github.com/and161185/contactbook/internal/repository/memory"
	"github.com/and161185/contactbook/internal/sanitize"
	"github.com/and161185/contactbook/internal/store"
)

type fakeSessions struct{ s *model.Session }

func (f *fakeSessions) Current() *model.Session { return f.s }

var _ SessionSource = (*fakeSessions)(nil)

type fakeRepo struct {
	repository.ContactRepository
	createCalls int
	updateCalls int
	err         error
}

var _ repository.ContactRepository = (*fakeRepo)(nil)

func (f *fakeRepo) List(context.Context) ([]model.Contact, error) { return []model.Contact{}, nil }
func (f *fakeRepo) GetByID(_ context.Context, id string) (*model.Contact, error) {
	return &model.Contact{ID: id, FirstName: "A", LastName: "B", Email: "a@b.co"}, nil
}
func (f *fakeRepo) Create(context.Context, model.ContactInput) (*model.Contact, error) {
	f.createCalls++
	return nil, f.err
}
func (f *fakeRepo) Update(context.Context, string, model.ContactInput) (*model.Contact, error) {
	f.updateCalls++
	return nil, f.err
}
func (f *fakeRepo) Delete(context.Context, string) error { return f.err }

func newContacts(t *testing.T) (*ContactService, *fakeSessions) {
	t.Helper()
	sess := &fakeSessions{s: &model.Session{ID: "s1", Email: "me@x.com"}}
	return NewContactService(store.New(memory.New()), sess, nil), sess
}

func annForm() sanitize.Form {
	return sanitize.Form{FirstName: model.Ptr(" Ann "), LastName: model.Ptr("Lee"), Email: model.Ptr("ANN@X.COM")}
}

func TestContacts_RequireSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, sess := newContacts(t)
	sess.s = nil

	_, err := svc.List(ctx)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = svc.Add(ctx, annForm())
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = svc.Edit(ctx, "x", sanitize.Form{})
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	require.ErrorIs(t, svc.Remove(ctx, "x"), errs.ErrUnauthenticated)
	_, err = svc.Search(ctx, "a")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = svc.Get(ctx, "x")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = svc.Stats(ctx)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	nilSessions := NewContactService(store.New(memory.New()), nil, nil)
	_, err = nilSessions.List(ctx)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestContacts_AddSanitizesAndNotifies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newContacts(t)

	var got [][]model.Contact
	unsub := svc.Subscribe(func(cs []model.Contact) { got = append(got, cs) })

	c, err := svc.Add(ctx, annForm())
	require.NoError(t, err)
	require.Equal(t, "Ann", c.FirstName)
	require.Equal(t, "ann@x.com", c.Email)
	require.Equal(t, model.CategoryOther, c.Category)
	require.Len(t, got, 1)
	require.Equal(t, c.ID, got[0][0].ID)

	unsub()
	_, err = svc.Add(ctx, sanitize.Form{FirstName: model.Ptr("B"), LastName: model.Ptr("C"), Email: model.Ptr("b@c.io")})
	require.NoError(t, err)
	require.Len(t, got, 1, "unsubscribed callback must not fire")
}

func TestContacts_AddValidationAbortsWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewContactService(repo, &fakeSessions{s: &model.Session{ID: "s"}}, nil)

	_, err := svc.Add(ctx, sanitize.Form{FirstName: model.Ptr("<>")})
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, []string{"First name is required", "Last name is required", "Email is required"}, ve.Messages)
	require.Zero(t, repo.createCalls)
}

func TestContacts_EditPartial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newContacts(t)

	f := annForm()
	f.Company = model.Ptr("Acme")
	c, err := svc.Add(ctx, f)
	require.NoError(t, err)

	up, err := svc.Edit(ctx, c.ID, sanitize.Form{Notes: model.Ptr(" Met at conf ")})
	require.NoError(t, err)
	require.Equal(t, "Met at conf", up.Notes)
	require.Equal(t, "Acme", up.Company)
	require.Equal(t, "Ann", up.FirstName)

	_, err = svc.Edit(ctx, c.ID, sanitize.Form{Email: model.Ptr("broken")})
	require.ErrorIs(t, err, errs.ErrValidation)
	still, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", still.Email)

	_, err = svc.Edit(ctx, "missing", sanitize.Form{Notes: model.Ptr("x")})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestContacts_RemoveViewStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newContacts(t)

	work := annForm()
	work.Category = model.Ptr("work")
	a, err := svc.Add(ctx, work)
	require.NoError(t, err)
	_, err = svc.Add(ctx, sanitize.Form{FirstName: model.Ptr("Bo"), LastName: model.Ptr("Ek"), Email: model.Ptr("bo@ek.se"), Category: model.Ptr("business"), Phone: model.Ptr("555 1234")})
	require.NoError(t, err)

	v, err := svc.View(ctx, "", model.CategoryWork)
	require.NoError(t, err)
	require.Len(t, v, 1)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, st.Total)
	require.Equal(t, 1, st.Business)
	require.Equal(t, 1, st.WithPhone)

	require.NoError(t, svc.Remove(ctx, a.ID))
	require.NoError(t, svc.Remove(ctx, a.ID))
	cs, err := svc.Reload(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 1)

	res, err := svc.Search(ctx, "EK.SE")
	require.NoError(t, err)
	require.Len(t, res, 1)
}

func TestContacts_RepoErrorsPropagate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("boom")
	repo := &fakeRepo{err: boom}
	svc := NewContactService(repo, &fakeSessions{s: &model.Session{ID: "s"}}, nil)

	notified := false
	svc.Subscribe(func([]model.Contact) { notified = true })

	_, err := svc.Add(ctx, annForm())
	require.ErrorIs(t, err, boom)
	_, err = svc.Edit(ctx, "id", sanitize.Form{Notes: model.Ptr("x")})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, svc.Remove(ctx, "id"), boom)
	require.False(t, notified, "failed mutations must not notify")
	require.Equal(t, 1, repo.createCalls)
	require.Equal(t, 1, repo.updateCalls)
}
