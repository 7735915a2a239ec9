package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	bolt "go.etcd.io/bbolt"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/p-udaykiran/noteapp/internal/config"
)

// Backend names the document store behind a connection string.
type Backend string

const (
	BackendMongo    Backend = "mongodb"
	BackendPostgres Backend = "postgres"
	BackendBolt     Backend = "bolt"
	BackendMemory   Backend = "memory"
)

// BackendFor maps the connection string scheme to a backend.
func BackendFor(connectionString string) (Backend, error) {
	scheme, _, ok := strings.Cut(strings.TrimSpace(connectionString), "://")
	if !ok {
		return "", fmt.Errorf("connection string %q has no scheme", connectionString)
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "bolt":
		return BackendBolt, nil
	case "memory":
		return BackendMemory, nil
	}
	return "", fmt.Errorf("unsupported store scheme %q", scheme)
}

// Open connects to the store named by cfg.ConnectionString and verifies it
// answers within cfg.ConnectTimeout.
func Open(ctx context.Context, cfg config.MongoDBConfig) (NoteRepo, error) {
	backend, err := BackendFor(cfg.ConnectionString)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout.Duration()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	switch backend {
	case BackendMongo:
		return openMongo(ctx, cfg, timeout)
	case BackendPostgres:
		return openPostgres(ctx, cfg, timeout)
	case BackendBolt:
		return openBolt(cfg, timeout)
	default:
		return NewMemNoteRepo(), nil
	}
}

func openMongo(ctx context.Context, cfg config.MongoDBConfig, timeout time.Duration) (*MongoNoteRepo, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.ConnectionString).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &StoreError{Op: "connect", Err: err}
	}
	r := NewMongoNoteRepo(client, cfg.DatabaseName, cfg.CollectionName)
	if err := r.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return r, nil
}

func openPostgres(ctx context.Context, cfg config.MongoDBConfig, timeout time.Duration) (*PGNoteRepo, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	pcfg.MaxConns = 10
	pcfg.MinConns = 2
	pcfg.MaxConnIdleTime = 5 * time.Minute
	pcfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, &StoreError{Op: "connect", Err: err}
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, &StoreError{Op: "ping", Err: err}
	}
	if err := RunMigrations(cfg.ConnectionString); err != nil {
		pool.Close()
		return nil, &StoreError{Op: "migrate", Err: err}
	}
	return NewPGNoteRepo(pool, cfg.CollectionName), nil
}

// openBolt accepts bolt:///abs/path.db and bolt://relative/path.db.
// DatabaseName is unused: one file is one database.
func openBolt(cfg config.MongoDBConfig, timeout time.Duration) (*BoltNoteRepo, error) {
	_, path, _ := strings.Cut(strings.TrimSpace(cfg.ConnectionString), "://")
	if path == "" {
		return nil, fmt.Errorf("bolt connection string needs a file path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StoreError{Op: "connect", Err: err}
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, &StoreError{Op: "connect", Err: err}
	}
	r, err := NewBoltNoteRepo(db, cfg.CollectionName)
	if err != nil {
		_ = db.Close()
		return nil, &StoreError{Op: "connect", Err: err}
	}
	return r, nil
}
