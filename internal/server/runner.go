// Package server runs the HTTP API and the background maintenance loops.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/reqarr/internal/events"
)

const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPruneInterval   = time.Hour
)

// Config for the server.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	PruneInterval   time.Duration
	Retention       time.Duration // zero disables pruning
}

// Runner manages the HTTP server and the event pruner.
type Runner struct {
	handler  http.Handler
	eventLog *events.EventLog
	config   Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunner creates a new runner. eventLog may be nil, which disables pruning.
func NewRunner(handler http.Handler, eventLog *events.EventLog, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = DefaultPruneInterval
	}
	return &Runner{
		handler:  handler,
		eventLog: eventLog,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// It blocks until every component has stopped.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           logRequests(r.handler, r.logger.With("component", "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		r.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if r.eventLog != nil && r.config.Retention > 0 {
		g.Go(func() error {
			r.pruneLoop(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) pruneLoop(ctx context.Context) {
	log := r.logger.With("component", "pruner")
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	for {
		r.prune(ctx, log)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) prune(ctx context.Context, log *slog.Logger) {
	n, err := r.eventLog.Prune(ctx, r.config.Retention, r.now())
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("prune events failed", "error", err)
		}
		return
	}
	if n > 0 {
		log.Info("pruned events", "count", n, "retention", r.config.Retention)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status, r.wrote = code, true
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
