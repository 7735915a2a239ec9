package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/p-udaykiran/noteapp/internal/domain"
)

// BoltNoteRepo keeps notes in an embedded bbolt file, one bucket per
// collection, JSON values keyed by id.
type BoltNoteRepo struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltNoteRepo creates the collection bucket if it does not exist yet.
func NewBoltNoteRepo(db *bolt.DB, collection string) (*BoltNoteRepo, error) {
	bucket := []byte(collection)
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bolt bucket %q: %w", collection, err)
	}
	return &BoltNoteRepo{db: db, bucket: bucket}, nil
}

func (r *BoltNoteRepo) FindAll(ctx context.Context) ([]domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	list := make([]domain.Note, 0)
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(_, v []byte) error {
			n, err := decodeJSONNote(v)
			if err != nil {
				return err
			}
			list = append(list, n)
			return nil
		})
	})
	if err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	sortNotes(list)
	return list, nil
}

func (r *BoltNoteRepo) FindByID(ctx context.Context, id string) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, &StoreError{Op: "find", Err: err}
	}
	var (
		n     domain.Note
		found bool
	)
	err := r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(r.bucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		var err error
		n, err = decodeJSONNote(data)
		return err
	})
	if err != nil {
		return domain.Note{}, &StoreError{Op: "find", Err: err}
	}
	if !found {
		return domain.Note{}, ErrNotFound
	}
	return n, nil
}

func (r *BoltNoteRepo) Insert(ctx context.Context, n domain.Note) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, &StoreError{Op: "insert", Err: err}
	}
	n, err := newNote(n, uuid.NewString())
	if err != nil {
		return domain.Note{}, err
	}
	data, err := json.Marshal(toJSONNote(n))
	if err != nil {
		return domain.Note{}, &StoreError{Op: "insert", Err: err}
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put([]byte(n.ID), data)
	})
	if err != nil {
		return domain.Note{}, &StoreError{Op: "insert", Err: err}
	}
	return n, nil
}

// Update reads, patches and writes back inside one read-write transaction.
func (r *BoltNoteRepo) Update(ctx context.Context, id string, patch domain.NotePatch) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, &StoreError{Op: "update", Err: err}
	}
	if err := validatePatch(patch); err != nil {
		return domain.Note{}, err
	}
	var (
		n     domain.Note
		found bool
	)
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		data := b.Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		current, err := decodeJSONNote(data)
		if err != nil {
			return err
		}
		n = applyPatch(current, patch, now())
		out, err := json.Marshal(toJSONNote(n))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), out)
	})
	if err != nil {
		return domain.Note{}, &StoreError{Op: "update", Err: err}
	}
	if !found {
		return domain.Note{}, ErrNotFound
	}
	return n, nil
}

func (r *BoltNoteRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	var found bool
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b.Get([]byte(id)) == nil {
			return nil
		}
		found = true
		return b.Delete([]byte(id))
	})
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (r *BoltNoteRepo) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return &StoreError{Op: "ping", Err: fmt.Errorf("bucket %q missing", r.bucket)}
		}
		return nil
	})
}

func (r *BoltNoteRepo) Close(context.Context) error {
	return r.db.Close()
}
