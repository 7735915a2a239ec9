package repo

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/p-udaykiran/noteapp/internal/domain"
	"github.com/p-udaykiran/noteapp/internal/utils"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PGNoteRepo keeps notes as JSONB documents in the shared documents table,
// one collection per logical table.
type PGNoteRepo struct {
	db         *pgxpool.Pool
	collection string
}

func NewPGNoteRepo(db *pgxpool.Pool, collection string) *PGNoteRepo {
	return &PGNoteRepo{db: db, collection: collection}
}

// RunMigrations brings the documents table up to date.
func RunMigrations(dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (r *PGNoteRepo) FindAll(ctx context.Context) ([]domain.Note, error) {
	rows, err := r.db.Query(ctx, `SELECT doc FROM documents WHERE collection = $1`, r.collection)
	if err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	defer rows.Close()

	list := make([]domain.Note, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, &StoreError{Op: "find", Err: err}
		}
		n, err := decodeJSONNote(raw)
		if err != nil {
			return nil, &StoreError{Op: "find", Err: err}
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	sortNotes(list)
	return list, nil
}

func (r *PGNoteRepo) FindByID(ctx context.Context, id string) (domain.Note, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
		r.collection, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Note{}, ErrNotFound
	}
	if err != nil {
		return domain.Note{}, &StoreError{Op: "find", Err: err}
	}
	n, err := decodeJSONNote(raw)
	if err != nil {
		return domain.Note{}, &StoreError{Op: "find", Err: err}
	}
	return n, nil
}

func (r *PGNoteRepo) Insert(ctx context.Context, n domain.Note) (domain.Note, error) {
	n, err := newNote(n, uuid.NewString())
	if err != nil {
		return domain.Note{}, err
	}
	doc, err := json.Marshal(toJSONNote(n))
	if err != nil {
		return domain.Note{}, &StoreError{Op: "insert", Err: err}
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb)`,
		r.collection, n.ID, string(doc),
	)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			err = fmt.Errorf("duplicate id %s: %w", n.ID, err)
		}
		return domain.Note{}, &StoreError{Op: "insert", Err: err}
	}
	return n, nil
}

// Update merges the patch into the stored document. updatedAt only moves forward.
func (r *PGNoteRepo) Update(ctx context.Context, id string, patch domain.NotePatch) (domain.Note, error) {
	if err := validatePatch(patch); err != nil {
		return domain.Note{}, err
	}
	fields := map[string]any{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Body != nil {
		fields["body"] = *patch.Body
	}
	merge, err := json.Marshal(fields)
	if err != nil {
		return domain.Note{}, &StoreError{Op: "update", Err: err}
	}
	at, err := json.Marshal(now())
	if err != nil {
		return domain.Note{}, &StoreError{Op: "update", Err: err}
	}

	query := `
		UPDATE documents
		SET doc = doc || $3::jsonb || jsonb_build_object('updatedAt',
			CASE WHEN (doc->>'updatedAt')::timestamptz > ($4::jsonb #>> '{}')::timestamptz
				THEN doc->'updatedAt' ELSE $4::jsonb END)
		WHERE collection = $1 AND id = $2
		RETURNING doc`
	var raw []byte
	err = r.db.QueryRow(ctx, query, r.collection, id, string(merge), string(at)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Note{}, ErrNotFound
	}
	if err != nil {
		return domain.Note{}, &StoreError{Op: "update", Err: err}
	}
	n, err := decodeJSONNote(raw)
	if err != nil {
		return domain.Note{}, &StoreError{Op: "update", Err: err}
	}
	return n, nil
}

func (r *PGNoteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, r.collection, id)
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGNoteRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	return nil
}

func (r *PGNoteRepo) Close(context.Context) error {
	r.db.Close()
	return nil
}

func decodeJSONNote(raw []byte) (domain.Note, error) {
	var d jsonNote
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.Note{}, fmt.Errorf("decode document: %w", err)
	}
	return d.toDomain(), nil
}
