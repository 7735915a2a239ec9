package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/p-udaykiran/noteapp/internal/domain"
)

// MemNoteRepo keeps notes in process memory. It backs memory:// and the tests.
type MemNoteRepo struct {
	mu    sync.RWMutex
	notes map[string]domain.Note
}

func NewMemNoteRepo() *MemNoteRepo {
	return &MemNoteRepo{notes: make(map[string]domain.Note)}
}

func (r *MemNoteRepo) FindAll(ctx context.Context) ([]domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	r.mu.RLock()
	list := make([]domain.Note, 0, len(r.notes))
	for _, n := range r.notes {
		list = append(list, n)
	}
	r.mu.RUnlock()
	sortNotes(list)
	return list, nil
}

func (r *MemNoteRepo) FindByID(ctx context.Context, id string) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, &StoreError{Op: "find", Err: err}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[id]
	if !ok {
		return domain.Note{}, ErrNotFound
	}
	return n, nil
}

func (r *MemNoteRepo) Insert(ctx context.Context, n domain.Note) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, &StoreError{Op: "insert", Err: err}
	}
	n, err := newNote(n, uuid.NewString())
	if err != nil {
		return domain.Note{}, err
	}
	r.mu.Lock()
	r.notes[n.ID] = n
	r.mu.Unlock()
	return n, nil
}

func (r *MemNoteRepo) Update(ctx context.Context, id string, patch domain.NotePatch) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, &StoreError{Op: "update", Err: err}
	}
	if err := validatePatch(patch); err != nil {
		return domain.Note{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return domain.Note{}, ErrNotFound
	}
	n = applyPatch(n, patch, now())
	r.notes[id] = n
	return n, nil
}

func (r *MemNoteRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id]; !ok {
		return ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *MemNoteRepo) Ping(ctx context.Context) error { return ctx.Err() }

func (r *MemNoteRepo) Close(context.Context) error { return nil }
