package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dom "github.com/p-udaykiran/noteapp/internal/domain"
	"github.com/p-udaykiran/noteapp/internal/repo"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
)

// NoteService validates input and delegates to the repository. It does not own
// the repository's lifecycle.
type NoteService struct {
	repo repo.NoteRepo
}

func NewNoteService(r repo.NoteRepo) *NoteService {
	return &NoteService{repo: r}
}

func (s *NoteService) List(ctx context.Context) ([]dom.Note, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s *NoteService) Get(ctx context.Context, id string) (dom.Note, error) {
	id, err := validID(id)
	if err != nil {
		return dom.Note{}, err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dom.Note{}, translate(err)
	}
	return n, nil
}

func (s *NoteService) Create(ctx context.Context, title, body string) (dom.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Note{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	n, err := s.repo.Insert(ctx, dom.Note{Title: title, Body: body})
	if err != nil {
		return dom.Note{}, translate(err)
	}
	return n, nil
}

// Update changes only the non-nil fields.
func (s *NoteService) Update(ctx context.Context, id string, title, body *string) (dom.Note, error) {
	id, err := validID(id)
	if err != nil {
		return dom.Note{}, err
	}
	patch := dom.NotePatch{Body: body}
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return dom.Note{}, fmt.Errorf("%w: title must not be empty", ErrInvalid)
		}
		patch.Title = &t
	}
	n, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return dom.Note{}, translate(err)
	}
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	id, err := validID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	return nil
}

// Ping reports whether the store is reachable.
func (s *NoteService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func validID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: id is required", ErrInvalid)
	}
	return id, nil
}

// translate maps repository errors to the kinds the handlers understand.
// Store errors keep their cause.
func translate(err error) error {
	var verr *repo.ValidationError
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.As(err, &verr):
		return fmt.Errorf("%w: %s", ErrInvalid, verr.Error())
	default:
		return fmt.Errorf("note store: %w", err)
	}
}
