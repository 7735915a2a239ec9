package repo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/p-udaykiran/noteapp/internal/domain"
)

// ErrNotFound is returned when no note has the requested id. Ids that are
// malformed for a backend are reported the same way.
var ErrNotFound = errors.New("note not found")

// ValidationError rejects a write that would break a Note invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

// StoreError wraps a failure talking to the document store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store " + e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// NoteRepo is the note collection. Every CRUD call is a single round trip to
// the store; implementations keep no state besides the driver handle.
type NoteRepo interface {
	FindAll(ctx context.Context) ([]domain.Note, error)
	FindByID(ctx context.Context, id string) (domain.Note, error)
	Insert(ctx context.Context, n domain.Note) (domain.Note, error)
	Update(ctx context.Context, id string, patch domain.NotePatch) (domain.Note, error)
	Delete(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// now is truncated to milliseconds, the precision BSON dates keep, so every
// backend hands back the same timestamps it was given.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// newNote stamps a note for insertion under id.
func newNote(n domain.Note, id string) (domain.Note, error) {
	if err := validateTitle(n.Title); err != nil {
		return domain.Note{}, err
	}
	at := now()
	n.ID = id
	n.CreatedAt = at
	n.UpdatedAt = at
	return n, nil
}

func validatePatch(p domain.NotePatch) error {
	if p.Title != nil {
		return validateTitle(*p.Title)
	}
	return nil
}

// applyPatch never moves UpdatedAt backwards.
func applyPatch(n domain.Note, p domain.NotePatch, at time.Time) domain.Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if at.After(n.UpdatedAt) {
		n.UpdatedAt = at
	}
	return n
}

// sortNotes orders newest first, ties broken by id.
func sortNotes(list []domain.Note) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

// jsonNote is the document shape of the JSON backends (bolt, postgres).
type jsonNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toJSONNote(n domain.Note) jsonNote {
	return jsonNote{ID: n.ID, Title: n.Title, Body: n.Body, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

func (d jsonNote) toDomain() domain.Note {
	return domain.Note{
		ID:        d.ID,
		Title:     d.Title,
		Body:      d.Body,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
