// Package acquisition drives a PVR integration from candidate releases to a grabbed download.
package acquisition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/release"
)

// DefaultFetchAttempts bounds candidate fetching: one try plus two retries.
const DefaultFetchAttempts = 3

// Sink receives the human-readable status of each step. It may be nil.
type Sink func(message string)

// Integrations resolves the PVR integration for a kind and registers titles.
// *pvr.Registrar implements it.
type Integrations interface {
	Integration(kind media.Kind) (pvr.Integration, error)
	Series() (pvr.SeriesIntegration, error)
	EnsureRegistered(ctx context.Context, externalID int64, kind media.Kind) (*pvr.Item, error)
}

// Outcome is the result of one acquisition attempt.
type Outcome struct {
	Success  bool
	State    State
	Reason   string // user-facing, set when Success is false
	Release  *release.Candidate
	Err      error
	Attempts int // candidate fetches made
}

// Retryable reports whether offering the user a retry makes sense.
func (o Outcome) Retryable() bool {
	return !o.Success && !errors.Is(o.Err, pvr.ErrIntegrationConfig)
}

// Config tunes the coordinator.
type Config struct {
	FetchAttempts uint
	FetchDelay    time.Duration // fixed pause between fetch attempts
}

// Coordinator runs acquisition attempts. Each call to Acquire is a fresh state machine.
type Coordinator struct {
	integrations Integrations
	cfg          Config
	logger       *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCoordinator creates a coordinator.
func NewCoordinator(integrations Integrations, cfg Config, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FetchAttempts == 0 {
		cfg.FetchAttempts = DefaultFetchAttempts
	}
	return &Coordinator{
		integrations: integrations,
		cfg:          cfg,
		logger:       logger.With("component", "acquisition"),
		inflight:     make(map[string]struct{}),
	}
}

// Acquire runs one attempt for target. Concurrent attempts for the same target are
// refused with ErrInProgress rather than triggering a second download.
func (c *Coordinator) Acquire(ctx context.Context, target media.Target, sink Sink) Outcome {
	key := target.Key()
	if !c.begin(key) {
		return Outcome{
			State:  StateFailed,
			Reason: "This title is already being downloaded.",
			Err:    fmt.Errorf("%s: %w", key, ErrInProgress),
		}
	}
	defer c.end(key)

	start := time.Now()
	var out Outcome
	switch target.Mode {
	case media.ModeMonitorSeason:
		out = c.monitorSeason(ctx, target, sink)
	case media.ModeSingleEpisode:
		out = c.monitorEpisode(ctx, target, sink)
	default:
		out = c.download(ctx, target, sink)
	}

	log := c.logger.With("target", key, "state", out.State, "duration_ms", time.Since(start).Milliseconds())
	if out.Success {
		log.Info("acquisition succeeded")
	} else {
		log.Warn("acquisition failed", "reason", out.Reason, "error", out.Err)
	}
	return out
}

func (c *Coordinator) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return false
	}
	c.inflight[key] = struct{}{}
	return true
}

func (c *Coordinator) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

// download is the FetchingCandidates -> Selecting -> Downloading path.
func (c *Coordinator) download(ctx context.Context, target media.Target, sink Sink) Outcome {
	a := newAttempt(StateFetchingCandidates, sink)

	integ, err := c.integrations.Integration(target.Kind)
	if err != nil {
		return a.fail(err.Error(), err)
	}
	if target.ItemID == 0 {
		item, err := c.integrations.EnsureRegistered(ctx, target.ExternalID, target.Kind)
		if err != nil {
			return a.fail(err.Error(), err)
		}
		target.ItemID = item.ID
		if target.Title == "" {
			target.Title = item.Title
		}
	}

	a.emit(fetchMessage(target))
	candidates, err := c.fetch(ctx, integ, target, &a.outcome.Attempts)
	switch {
	case errors.Is(err, ErrNoCandidates):
		return a.fail(noReleasesMessage(target), err)
	case err != nil:
		return a.fail(fetchErrorMessage(target, err), err)
	}

	if err := a.advance(StateSelecting); err != nil {
		return a.fail(err.Error(), err)
	}
	best, ok := release.SelectBest(candidates, release.ContextFor(target))
	if !ok {
		return a.fail("No suitable release found.", ErrNoSuitableRelease)
	}

	if err := a.advance(StateDownloading); err != nil {
		return a.fail(err.Error(), err)
	}
	a.emit("(2/2) Downloading best release...")
	grabbed, err := integ.Grab(ctx, best.GUID, best.IndexerID)
	if err != nil {
		return a.fail("Error during grabbing release: "+err.Error(), err)
	}
	if !grabbed {
		return a.fail("Failed to grab release: "+best.Title, fmt.Errorf("%w: %s", ErrGrabRejected, best.Title))
	}

	a.outcome.Release = &best
	return a.succeed()
}

// fetch lists candidates, retrying while the list is empty or the PVR is unreachable.
func (c *Coordinator) fetch(ctx context.Context, integ pvr.Integration, target media.Target, attempts *int) ([]release.Candidate, error) {
	return retry.DoWithData(
		func() ([]release.Candidate, error) {
			*attempts++
			candidates, err := integ.Releases(ctx, target.ItemID, target.Season)
			if err != nil {
				return nil, err
			}
			if len(candidates) == 0 {
				return nil, ErrNoCandidates
			}
			return candidates, nil
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.FetchAttempts),
		retry.Delay(c.cfg.FetchDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrNoCandidates) || pvr.IsRetryable(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying release fetch", "target", target.Key(), "attempt", n+1, "error", err)
		}),
	)
}

// monitorSeason is the Monitoring -> Searching path for a whole season.
func (c *Coordinator) monitorSeason(ctx context.Context, target media.Target, sink Sink) Outcome {
	a := newAttempt(StateMonitoring, sink)
	season := target.SeasonNumber()

	series, err := c.integrations.Series()
	if err != nil {
		return a.fail(err.Error(), err)
	}

	a.emit(fmt.Sprintf("(1/2) Monitoring season %d...", season))
	if err := series.MonitorSeason(ctx, target.ItemID, season); err != nil {
		return a.fail(fmt.Sprintf("Error monitoring season %d: %v", season, err), err)
	}

	if err := a.advance(StateSearching); err != nil {
		return a.fail(err.Error(), err)
	}
	a.emit(fmt.Sprintf("(2/2) Searching for season %d...", season))
	if err := series.SearchSeason(ctx, target.ItemID, season); err != nil {
		return a.fail(fmt.Sprintf("Error searching season %d: %v", season, err), err)
	}
	return a.succeed()
}

// monitorEpisode is the Monitoring -> Searching path for a single episode.
func (c *Coordinator) monitorEpisode(ctx context.Context, target media.Target, sink Sink) Outcome {
	a := newAttempt(StateMonitoring, sink)

	series, err := c.integrations.Series()
	if err != nil {
		return a.fail(err.Error(), err)
	}
	if target.EpisodeID == 0 || target.Episode == nil {
		err := fmt.Errorf("%w: no episode selected", pvr.ErrItemNotFound)
		return a.fail("No episode selected.", err)
	}
	episode := *target.Episode

	a.emit(fmt.Sprintf("(1/2) Monitoring episode %d of season %d...", episode, target.SeasonNumber()))
	if err := series.MonitorEpisode(ctx, target.EpisodeID); err != nil {
		return a.fail(fmt.Sprintf("Error monitoring episode %d: %v", episode, err), err)
	}

	if err := a.advance(StateSearching); err != nil {
		return a.fail(err.Error(), err)
	}
	a.emit(fmt.Sprintf("(2/2) Searching for episode %d...", episode))
	if err := series.SearchEpisode(ctx, target.EpisodeID); err != nil {
		return a.fail(fmt.Sprintf("Error searching episode %d: %v", episode, err), err)
	}
	return a.succeed()
}

func fetchMessage(t media.Target) string {
	if t.Kind == media.KindSeries {
		return fmt.Sprintf("(1/2) Checking for best releases for season %d...", t.SeasonNumber())
	}
	return "(1/2) Checking for best releases..."
}

func noReleasesMessage(t media.Target) string {
	if t.Kind == media.KindSeries {
		return "No releases found for this season."
	}
	return "No releases found for this movie."
}

func fetchErrorMessage(t media.Target, err error) string {
	if t.Kind == media.KindSeries {
		return fmt.Sprintf("Error fetching releases for season %d: %v", t.SeasonNumber(), err)
	}
	return "Error fetching releases: " + err.Error()
}

// attempt is the state of one acquisition, never reused.
type attempt struct {
	state   State
	sink    Sink
	outcome Outcome
}

func newAttempt(initial State, sink Sink) *attempt {
	return &attempt{state: initial, sink: sink}
}

func (a *attempt) emit(msg string) {
	if a.sink != nil {
		a.sink(msg)
	}
}

func (a *attempt) advance(next State) error {
	if !a.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", errInvalidTransition, a.state, next)
	}
	a.state = next
	return nil
}

// fail records the reason on the outcome only; callers decide how to report it.
func (a *attempt) fail(reason string, err error) Outcome {
	a.state = StateFailed
	a.outcome.State = StateFailed
	a.outcome.Reason = reason
	a.outcome.Err = err
	return a.outcome
}

func (a *attempt) succeed() Outcome {
	if err := a.advance(StateSucceeded); err != nil {
		return a.fail(err.Error(), err)
	}
	a.outcome.Success = true
	a.outcome.State = StateSucceeded
	return a.outcome
}
