package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/p-udaykiran/noteapp/internal/domain"
	"github.com/p-udaykiran/noteapp/internal/repo"
)

// failingRepo answers every call with err and counts the calls.
type failingRepo struct {
	err   error
	calls int
}

func (f *failingRepo) FindAll(context.Context) ([]dom.Note, error) {
	f.calls++
	return nil, f.err
}

func (f *failingRepo) FindByID(context.Context, string) (dom.Note, error) {
	f.calls++
	return dom.Note{}, f.err
}

func (f *failingRepo) Insert(context.Context, dom.Note) (dom.Note, error) {
	f.calls++
	return dom.Note{}, f.err
}

func (f *failingRepo) Update(context.Context, string, dom.NotePatch) (dom.Note, error) {
	f.calls++
	return dom.Note{}, f.err
}

func (f *failingRepo) Delete(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *failingRepo) Ping(context.Context) error { return f.err }
func (f *failingRepo) Close(context.Context) error { return nil }

func ptr(s string) *string { return &s }

func TestNoteService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewNoteService(repo.NewMemNoteRepo())

	n, err := svc.Create(ctx, "  Groceries  ", "milk")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, "milk", n.Body)

	got, err := svc.Get(ctx, " "+n.ID+" ")
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)

	u, err := svc.Update(ctx, n.ID, ptr(" Shopping "), nil)
	require.NoError(t, err)
	assert.Equal(t, "Shopping", u.Title)
	assert.Equal(t, "milk", u.Body)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, n.ID))
	assert.ErrorIs(t, svc.Delete(ctx, n.ID), ErrNotFound)
	_, err = svc.Get(ctx, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteService_ValidationBeforeStore(t *testing.T) {
	ctx := context.Background()
	f := &failingRepo{err: errors.New("must not be called")}
	svc := NewNoteService(f)

	_, err := svc.Create(ctx, "   ", "body")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Update(ctx, "id", ptr(""), nil)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Update(ctx, " ", ptr("t"), nil)
	assert.ErrorIs(t, err, ErrInvalid)

	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrInvalid)
	assert.Zero(t, f.calls)
}

func TestNoteService_UpdateUnknownIsNotFound(t *testing.T) {
	svc := NewNoteService(repo.NewMemNoteRepo())
	_, err := svc.Update(context.Background(), "missing", ptr("t"), ptr("b"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteService_TranslatesRepoErrors(t *testing.T) {
	ctx := context.Background()

	svc := NewNoteService(&failingRepo{err: repo.ErrNotFound})
	_, err := svc.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	svc = NewNoteService(&failingRepo{err: &repo.ValidationError{Field: "title", Reason: "must not be empty"}})
	_, err = svc.Create(ctx, "t", "")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "title")

	cause := errors.New("connection refused")
	svc = NewNoteService(&failingRepo{err: &repo.StoreError{Op: "find", Err: cause}})
	_, err = svc.List(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, cause)

	var serr *repo.StoreError
	assert.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, svc.Ping(ctx), cause)
}
