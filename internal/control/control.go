// Package control assembles the pipeline from configuration and manages
// its lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/faultline/internal/core/config"
	"github.com/vietddude/faultline/internal/faults/dispatch"
	"github.com/vietddude/faultline/internal/faults/health"
	"github.com/vietddude/faultline/internal/infra/storage"
	"github.com/vietddude/faultline/internal/infra/storage/memory"
	"github.com/vietddude/faultline/internal/infra/storage/postgres"
	"github.com/vietddude/faultline/internal/ingest"
	"github.com/vietddude/faultline/internal/report"

	redisclient "github.com/vietddude/faultline/internal/infra/redis"
)

// App is the assembled service: one dispatcher, its sinks, and the two
// HTTP surfaces.
type App struct {
	cfg          *config.AppConfig
	dispatcher   *dispatch.Dispatcher
	crumbs       *report.Breadcrumbs
	ingestServer *ingest.Server
	healthServer *health.Server
	db           *postgres.DB
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// New creates an App with all dependencies initialized.
func New(cfg *config.AppConfig) (*App, error) {
	log := slog.Default()

	// 1. Storage
	var repo storage.ReportRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		repo = postgres.NewReportRepo(db)
		log.Info("Using PostgreSQL report archive")
	} else {
		repo = memory.NewReportRepo()
		log.Info("Using in-memory report archive")
	}

	// 2. Reporter sinks
	sinks := []report.Reporter{
		report.NewStoreReporter(repo),
		report.NewLogReporter(log),
	}

	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		sinks = append(sinks, redisclient.NewSink(redisClient, "ingest", 1000, 24*time.Hour))
		log.Info("Redis report sink enabled")
	}

	// 3. Dispatcher
	rules, err := cfg.Dispatcher.CompileRules()
	if err != nil {
		return nil, err
	}

	crumbs := report.NewBreadcrumbs(cfg.Dispatcher.Breadcrumbs)
	dispatcher := dispatch.New(dispatch.Config{
		Rules:                  rules,
		SurfaceToFaultBoundary: cfg.Dispatcher.SurfaceToFaultBoundary,
		ReportSuppressedErrors: cfg.Dispatcher.ReportSuppressedErrors,
		DebounceWindow:         cfg.Dispatcher.DebounceWindow(),
		DedupMaxEntries:        cfg.Dispatcher.DedupMaxEntries,
	},
		report.NewMulti(sinks...),
		dispatch.WithBreadcrumbs(crumbs),
		dispatch.WithLogger(log),
	)

	// 4. HTTP surfaces
	monitor := health.NewMonitor()
	monitor.Register("ingest", dispatcher)

	return &App{
		cfg:          cfg,
		dispatcher:   dispatcher,
		crumbs:       crumbs,
		ingestServer: ingest.NewServer(dispatcher, cfg.Server.IngestPort, log),
		healthServer: health.NewServer(monitor, cfg.Server.HealthPort),
		db:           db,
		redisClient:  redisClient,
		log:          log,
	}, nil
}

// Dispatcher exposes the pipeline for embedding callers.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// AddBreadcrumb records an application event on the report trail.
func (a *App) AddBreadcrumb(crumb string) {
	a.crumbs.Add(crumb)
}

// Start launches the HTTP servers.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.ingestServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("ingest server stopped", "error", err)
		}
	}()
	go func() {
		if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("health server stopped", "error", err)
		}
	}()

	a.log.Info("faultline started",
		"ingest_port", a.cfg.Server.IngestPort,
		"health_port", a.cfg.Server.HealthPort)
	return nil
}

// Stop gracefully shuts everything down.
func (a *App) Stop(ctx context.Context) error {
	var firstErr error

	if err := a.ingestServer.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.healthServer.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
