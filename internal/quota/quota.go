// Package quota decides whether a user's request can be approved without an administrator.
package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/user"
)

// ApprovalMethod selects how non-admin requests are approved.
type ApprovalMethod string

const (
	// ApprovalQuota auto-approves while the user is under their rolling limit.
	ApprovalQuota ApprovalMethod = "quota"
	// ApprovalManual sends every non-admin request to an administrator.
	ApprovalManual ApprovalMethod = "manual"
)

// Defaults used when the request policy is not configured.
const (
	DefaultWindowDays  = 7
	DefaultMovieLimit  = 10
	DefaultSeriesLimit = 5
)

// Policy is the validated request policy.
type Policy struct {
	AllowRequests  bool
	ApprovalMethod ApprovalMethod
	WindowDays     int
	MovieLimit     int
	SeriesLimit    int
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		AllowRequests:  true,
		ApprovalMethod: ApprovalQuota,
		WindowDays:     DefaultWindowDays,
		MovieLimit:     DefaultMovieLimit,
		SeriesLimit:    DefaultSeriesLimit,
	}
}

// Limit returns the per-kind limit.
func (p Policy) Limit(kind media.Kind) int {
	if kind == media.KindSeries {
		return p.SeriesLimit
	}
	return p.MovieLimit
}

// Validate reports policy problems.
func (p Policy) Validate() error {
	switch {
	case p.ApprovalMethod != ApprovalQuota && p.ApprovalMethod != ApprovalManual:
		return fmt.Errorf("unknown approval method %q", p.ApprovalMethod)
	case p.WindowDays < 1:
		return fmt.Errorf("window must be at least 1 day, got %d", p.WindowDays)
	case p.MovieLimit < 0 || p.SeriesLimit < 0:
		return fmt.Errorf("limits cannot be negative")
	}
	return nil
}

// Result is the outcome of one quota evaluation.
type Result struct {
	Allowed    bool `json:"allowed"`
	Remaining  int  `json:"remaining"`
	WindowDays int  `json:"window_days"`
	Limit      int  `json:"limit"`
	Count      int  `json:"count"`
}

// Counter counts a user's requests within [asOf - days, asOf].
type Counter interface {
	CountInWindow(ctx context.Context, actor user.User, userID string, days int, asOf time.Time) (int, error)
}

// Evaluator applies a Policy to a user's recent request history.
type Evaluator struct {
	counter Counter
	policy  Policy
	logger  *slog.Logger
}

// NewEvaluator creates an evaluator. The policy is assumed to be validated.
func NewEvaluator(counter Counter, policy Policy, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		counter: counter,
		policy:  policy,
		logger:  logger.With("component", "quota"),
	}
}

// Policy returns the policy in force.
func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Evaluate computes whether u may have a request of the given kind auto-approved at now.
// The count is recomputed on every call.
func (e *Evaluator) Evaluate(ctx context.Context, u user.User, kind media.Kind, now time.Time) (Result, error) {
	limit := e.policy.Limit(kind)
	res := Result{WindowDays: e.policy.WindowDays, Limit: limit}

	count, err := e.counter.CountInWindow(ctx, u, u.ID, e.policy.WindowDays, now)
	if err != nil {
		return Result{}, fmt.Errorf("count requests for %s: %w", u.ID, err)
	}
	res.Count = count
	res.Remaining = max(limit-count, 0)

	switch {
	case u.IsAdmin:
		res.Allowed = true
	case e.policy.ApprovalMethod == ApprovalManual:
		res.Allowed = false
	default:
		res.Allowed = count < limit
	}

	e.logger.Debug("quota evaluated",
		"user_id", u.ID,
		"kind", kind,
		"count", count,
		"limit", limit,
		"allowed", res.Allowed)
	return res, nil
}
