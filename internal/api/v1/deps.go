package v1

import (
	"errors"
	"log/slog"
	"time"

	"github.com/vmunix/reqarr/internal/acquisition"
	"github.com/vmunix/reqarr/internal/events"
	"github.com/vmunix/reqarr/internal/quota"
	"github.com/vmunix/reqarr/internal/request"
	"github.com/vmunix/reqarr/internal/user"
	"github.com/vmunix/reqarr/internal/workflow"
)

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Users    *user.Store
	Requests *request.Manager
	Quota    *quota.Evaluator

	// Optional dependencies (nil if not configured)
	Workflow     *workflow.Orchestrator
	Acquirer     *acquisition.Coordinator
	Integrations acquisition.Integrations
	EventLog     *events.EventLog

	Version string
	Logger  *slog.Logger
	Now     func() time.Time
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Users == nil {
		return errors.New("user store is required")
	}
	if d.Requests == nil {
		return errors.New("request manager is required")
	}
	if d.Quota == nil {
		return errors.New("quota evaluator is required")
	}
	return nil
}
