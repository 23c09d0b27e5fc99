// Package application assembles a core.Service from configuration. Both the
// HTTP server and the CLI start here.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/catalog-import/internal/artifact"
	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/JonMunkholm/catalog-import/internal/sheet"
	"github.com/JonMunkholm/catalog-import/internal/store/memory"
	"github.com/JonMunkholm/catalog-import/internal/store/postgres"
)

// Options adjusts how New wires the service.
type Options struct {
	// Offline keeps records and artifacts in memory. Nothing is written to
	// Postgres or to the artifact backend.
	Offline bool

	Logger *slog.Logger
}

// App holds the wired service and the resources it owns.
type App struct {
	Config  *config.Config
	Service *core.Service
	Store   core.RecordStore
	Sink    core.ArtifactSink

	// Pool is nil when running offline.
	Pool *pgxpool.Pool

	closers []func() error
}

// New connects the configured store and artifact backend and builds the
// service. Close releases everything New opened.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{Config: cfg}

	if opts.Offline {
		app.Store = memory.New()
		app.Sink = artifact.NewMemorySink()
	} else {
		if err := app.openDatabase(ctx, cfg, logger); err != nil {
			app.Close()
			return nil, err
		}

		sink, closeSink, err := artifact.Open(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("open artifact backend: %w", err)
		}
		app.Sink = sink
		app.closers = append(app.closers, closeSink)
		logger.Info("artifact backend ready", "backend", cfg.Artifact.Backend)
	}

	app.Service = core.NewService(app.Store, app.Sink, sheet.Select, ServiceOptions(cfg, logger))
	return app, nil
}

func (a *App) openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.URL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	a.Pool = pool
	a.Store = postgres.New(pool)
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})

	logger.Info("connected to database", "max_conns", cfg.Database.MaxConns)
	return nil
}

// ServiceOptions maps the import section of cfg onto core.ServiceOptions.
func ServiceOptions(cfg *config.Config, logger *slog.Logger) core.ServiceOptions {
	return core.ServiceOptions{
		ChunkSize:     cfg.Import.ChunkSize,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWait:       cfg.Import.MaxWaitTime,
		Logger:        logger,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
