// @title           NoteApp API
// @version         1.0
// @description     Notes CRUD with conventional MVC routes and HTML views.
// @host            localhost:5050
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/p-udaykiran/noteapp/internal/app"
	"github.com/p-udaykiran/noteapp/internal/config"
	"github.com/p-udaykiran/noteapp/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "noteapp: %v\n", err)
		os.Exit(1)
	}
}

// run serves until ctx is done. Configuration errors return before the
// listener is bound.
func run(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log, stderr)
	if err != nil {
		return &config.ConfigurationError{Err: err}
	}
	log.Info().Str("env", cfg.App.Env).Str("version", cfg.App.Version).Msg("config loaded, connecting to note store")

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close")
		}
	}()

	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTP.Addr, err)
	}
	server := &http.Server{
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}
	fmt.Fprintf(stdout, "✅ NoteApp running on http://%s\n", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout.Duration())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
