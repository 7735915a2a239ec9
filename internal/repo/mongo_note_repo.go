package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/p-udaykiran/noteapp/internal/domain"
)

type mongoNote struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Body      string             `bson:"body"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d mongoNote) toDomain() domain.Note {
	return domain.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Body:      d.Body,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoNoteRepo stores notes as documents of one MongoDB collection.
type MongoNoteRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoNoteRepo(client *mongo.Client, database, collection string) *MongoNoteRepo {
	return &MongoNoteRepo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (r *MongoNoteRepo) FindAll(ctx context.Context) ([]domain.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	var docs []mongoNote
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &StoreError{Op: "find", Err: err}
	}
	list := make([]domain.Note, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.toDomain())
	}
	return list, nil
}

func (r *MongoNoteRepo) FindByID(ctx context.Context, id string) (domain.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Note{}, ErrNotFound
	}
	var d mongoNote
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Note{}, ErrNotFound
	}
	if err != nil {
		return domain.Note{}, &StoreError{Op: "find", Err: err}
	}
	return d.toDomain(), nil
}

func (r *MongoNoteRepo) Insert(ctx context.Context, n domain.Note) (domain.Note, error) {
	oid := primitive.NewObjectID()
	n, err := newNote(n, oid.Hex())
	if err != nil {
		return domain.Note{}, err
	}
	d := mongoNote{ID: oid, Title: n.Title, Body: n.Body, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return domain.Note{}, &StoreError{Op: "insert", Err: err}
	}
	return n, nil
}

// Update applies the patch and refreshes updatedAt in one FindOneAndUpdate.
// $max keeps updatedAt from moving backwards.
func (r *MongoNoteRepo) Update(ctx context.Context, id string, patch domain.NotePatch) (domain.Note, error) {
	if err := validatePatch(patch); err != nil {
		return domain.Note{}, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Note{}, ErrNotFound
	}

	update := bson.D{{Key: "$max", Value: bson.D{{Key: "updatedAt", Value: now()}}}}
	if !patch.Empty() {
		var set bson.D
		if patch.Title != nil {
			set = append(set, bson.E{Key: "title", Value: *patch.Title})
		}
		if patch.Body != nil {
			set = append(set, bson.E{Key: "body", Value: *patch.Body})
		}
		update = append(update, bson.E{Key: "$set", Value: set})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d mongoNote
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Note{}, ErrNotFound
	}
	if err != nil {
		return domain.Note{}, &StoreError{Op: "update", Err: err}
	}
	return d.toDomain(), nil
}

func (r *MongoNoteRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNoteRepo) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	return nil
}

func (r *MongoNoteRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
