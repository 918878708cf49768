// main is the entry point of the Course Registration API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (+ env overrides)
//  2. Initialise the logger
//  3. Open the configured Data Store and migrate its schema
//  4. Build the router (services, handlers, middleware)
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/course-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/course-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/course-registration-api/internal/config"
	"github.com/aanand-mishra/course-registration-api/internal/http/router"
	"github.com/aanand-mishra/course-registration-api/internal/logger"
	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/storage/memory"
	"github.com/aanand-mishra/course-registration-api/internal/storage/postgres"
	"github.com/aanand-mishra/course-registration-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Installed as the default so handlers can log via the slog package
	// functions.
	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting course-api",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The result is held as the storage.Storage interface; nothing past
	// this point knows which backend is in use.
	store, err := openStorage(context.Background(), cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	// ── 4. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router.New(store, cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 5. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks, so it runs on its own goroutine and reports
	// failure on serverErr instead of exiting from under the deferred Close.
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ErrServerClosed is the expected result of Shutdown.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serverErr:
		log.Error("server encountered an error", slog.String("error", err.Error()))
		store.Close()
		os.Exit(1)
	}

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// openStorage returns the backend selected by cfg.Storage.Driver.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
