package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/p-udaykiran/noteapp/internal/auth"
	"github.com/p-udaykiran/noteapp/internal/config"
	"github.com/p-udaykiran/noteapp/internal/logger"
	"github.com/p-udaykiran/noteapp/internal/repo"
	"github.com/p-udaykiran/noteapp/internal/views"
)

type App struct {
	cfg      config.Config
	log      zerolog.Logger
	notes    repo.NoteRepo
	sessions *auth.Store
	router   *gin.Engine
}

// New opens the note store (and the session store when auth is enabled) and
// builds the router. Nothing is listening yet.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	notes, err := repo.Open(ctx, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	a.notes = notes
	backend, _ := repo.BackendFor(cfg.MongoDB.ConnectionString)
	log.Info().
		Str("backend", string(backend)).
		Str("database", cfg.MongoDB.DatabaseName).
		Str("collection", cfg.MongoDB.CollectionName).
		Msg("note store ready")

	if cfg.Auth.Enabled {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = notes.Close(ctx)
			return nil, err
		}
		a.sessions = auth.NewStore(rdb, cfg.Auth.SessionTTL.Duration())
		log.Info().Str("redis", cfg.Redis.Addr).Msg("session auth enabled")
	}

	a.router = a.newRouter()
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.sessions != nil {
		errs = append(errs, a.sessions.Close())
	}
	if a.notes != nil {
		errs = append(errs, a.notes.Close(ctx))
	}
	return errors.Join(errs...)
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func (a *App) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Requests(a.log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "If-None-Match", "Cookie"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "ETag", "Location"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(static.Serve("/", static.LocalFile(a.cfg.Static.Root, false)))

	r.SetHTMLTemplate(views.Templates())
	a.setup(r)
	return r
}
