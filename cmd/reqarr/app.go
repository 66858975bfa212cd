package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vmunix/reqarr/internal/acquisition"
	v1 "github.com/vmunix/reqarr/internal/api/v1"
	"github.com/vmunix/reqarr/internal/config"
	"github.com/vmunix/reqarr/internal/events"
	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/migrations"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/pvr/radarr"
	"github.com/vmunix/reqarr/internal/pvr/sonarr"
	"github.com/vmunix/reqarr/internal/quota"
	"github.com/vmunix/reqarr/internal/request"
	"github.com/vmunix/reqarr/internal/user"
	"github.com/vmunix/reqarr/internal/workflow"
)

// app holds the wired services shared by `serve` and the local commands.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	logger    *slog.Logger
	users     *user.Store
	eventLog  *events.EventLog
	bus       *events.Bus
	requests  *request.Manager
	quota     *quota.Evaluator
	registrar *pvr.Registrar
	acquirer  *acquisition.Coordinator
	workflow  *workflow.Orchestrator
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

// openApp opens the database and wires every service from cfg.
func openApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	policy := cfg.QuotaPolicy()
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("requests: %w", err)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a := &app{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		users:    user.NewStore(db),
		eventLog: events.NewEventLog(db),
	}
	a.bus = events.NewBus(a.eventLog, logger)
	a.requests = request.NewManager(request.NewStore(db), a.bus, logger)
	a.quota = quota.NewEvaluator(a.requests, policy, logger)
	a.registrar = pvr.NewRegistrar(bindings(cfg, logger), logger)
	a.acquirer = acquisition.NewCoordinator(a.registrar, acquisition.Config{
		FetchDelay: cfg.Acquisition.FetchDelay.Duration,
	}, logger)
	a.workflow = workflow.New(workflow.Deps{
		Integrations: a.registrar,
		Quota:        a.quota,
		Acquirer:     a.acquirer,
		Requests:     a.requests,
		Bus:          a.bus,
	}, workflow.Config{MaxRecoveryAttempts: cfg.Acquisition.MaxRecoveryAttempts}, logger)
	return a, nil
}

// bindings builds a PVR binding for every configured integration section.
func bindings(cfg *config.Config, logger *slog.Logger) map[media.Kind]pvr.Binding {
	b := make(map[media.Kind]pvr.Binding, 2)
	if ic := cfg.Integrations.Radarr; ic != nil {
		s := ic.Settings()
		b[media.KindMovie] = pvr.Binding{Name: "radarr", Integration: radarr.New(s, logger), Settings: s}
	}
	if ic := cfg.Integrations.Sonarr; ic != nil {
		s := ic.Settings()
		b[media.KindSeries] = pvr.Binding{Name: "sonarr", Integration: sonarr.New(s, logger), Settings: s}
	}
	return b
}

func (a *app) api() (*v1.Server, error) {
	return v1.New(v1.ServerDeps{
		Users:        a.users,
		Requests:     a.requests,
		Quota:        a.quota,
		Workflow:     a.workflow,
		Acquirer:     a.acquirer,
		Integrations: a.registrar,
		EventLog:     a.eventLog,
		Version:      version,
		Logger:       a.logger,
	})
}

func (a *app) Close() error {
	_ = a.bus.Close()
	return a.db.Close()
}

// loadApp discovers and loads the config, then opens the app.
func loadApp() (*app, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return openApp(cfg, newLogger(cfg.Server.LogLevel))
}
