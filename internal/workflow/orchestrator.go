// Package workflow runs the approval workflow: pick what to acquire, check the user's
// quota, then either acquire it right away and record an approved request, or record a
// pending request for an administrator to review.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/reqarr/internal/acquisition"
	"github.com/vmunix/reqarr/internal/events"
	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/quota"
	"github.com/vmunix/reqarr/internal/release"
	"github.com/vmunix/reqarr/internal/request"
	"github.com/vmunix/reqarr/internal/user"
)

// DefaultMaxRecoveryAttempts is how many retries a failed acquisition may be given.
const DefaultMaxRecoveryAttempts = 3

// Intent is what the user asked for.
type Intent struct {
	Kind    media.Kind
	MediaID int64 // external catalog id
}

// Result describes how a run ended.
type Result struct {
	RunID    string
	State    State
	Target   media.Target
	Quota    *quota.Result
	Request  *request.Request
	Release  *release.Candidate
	Seasons  []SeasonCheck
	Attempts int
	Reason   string // why the run was abandoned
	Err      error  // last acquisition error, if any
	History  []State
}

// Deps are the collaborators the orchestrator drives.
type Deps struct {
	Integrations acquisition.Integrations
	Quota        *quota.Evaluator
	Acquirer     *acquisition.Coordinator
	Requests     *request.Manager
	Bus          *events.Bus // optional
}

// Config tunes the orchestrator.
type Config struct {
	MaxRecoveryAttempts int
}

// Orchestrator runs approval workflows. It holds no per-run state; every call to Run
// carries its own.
type Orchestrator struct {
	deps   Deps
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an orchestrator.
func New(deps Deps, cfg Config, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRecoveryAttempts <= 0 {
		cfg.MaxRecoveryAttempts = DefaultMaxRecoveryAttempts
	}
	o := &Orchestrator{
		deps:   deps,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With("component", "workflow"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run is the per-invocation state, passed along by pointer within one Run only.
type run struct {
	*Orchestrator
	actor  user.User
	prompt Prompter
	notify Notifier
	log    *slog.Logger
	res    *Result
}

// Run executes the workflow for actor. Failures while selecting the target, evaluating
// the quota or creating a pending request are returned as errors. Acquisition failures
// go through error recovery and end in a Result, never an error.
func (o *Orchestrator) Run(ctx context.Context, actor user.User, intent Intent, p Prompter, n Notifier) (*Result, error) {
	if n == nil {
		n = Discard
	}
	if !intent.Kind.Valid() {
		return nil, fmt.Errorf("unknown media kind %q", intent.Kind)
	}
	if !actor.IsAdmin && !o.deps.Quota.Policy().AllowRequests {
		return nil, ErrRequestsDisabled
	}

	runID := uuid.NewString()
	r := &run{
		Orchestrator: o,
		actor:        actor,
		prompt:       p,
		notify:       n,
		log:          o.logger.With("run_id", runID, "user_id", actor.ID, "kind", intent.Kind, "media_id", intent.MediaID),
		res: &Result{
			RunID:   runID,
			State:   StateSelectingTarget,
			Target:  media.Target{Kind: intent.Kind, ExternalID: intent.MediaID},
			History: []State{StateSelectingTarget},
		},
	}
	r.log.Info("workflow started")

	target, err := r.selectTarget(ctx, intent)
	if errors.Is(err, ErrCancelled) {
		return r.abandon(ctx, "Request cancelled.")
	}
	if err != nil {
		return nil, err
	}
	r.res.Target = target

	if err := r.moveTo(StateEvaluatingQuota); err != nil {
		return nil, err
	}
	q, err := o.deps.Quota.Evaluate(ctx, actor, target.Kind, o.now())
	if err != nil {
		return nil, err
	}
	r.res.Quota = &q

	if q.Allowed {
		return r.autoAcquire(ctx, q)
	}
	return r.createPending(ctx)
}

func (r *run) moveTo(next State) error {
	if !r.res.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", errInvalidTransition, r.res.State, next)
	}
	r.res.State = next
	r.res.History = append(r.res.History, next)
	return nil
}

// selectTarget makes sure the title is known to the PVR and resolves the season and
// episode choice for series.
func (r *run) selectTarget(ctx context.Context, intent Intent) (media.Target, error) {
	item, err := r.deps.Integrations.EnsureRegistered(ctx, intent.MediaID, intent.Kind)
	if err != nil {
		return media.Target{}, err
	}
	target := media.Target{
		Kind:       intent.Kind,
		ExternalID: intent.MediaID,
		ItemID:     item.ID,
		Title:      item.Title,
		Mode:       media.ModeWholeTitle,
	}
	if intent.Kind == media.KindMovie {
		return target, nil
	}

	series, err := r.deps.Integrations.Series()
	if err != nil {
		return media.Target{}, err
	}
	checks := r.checkSeasons(ctx, series, item.ID, item.SeasonNumbers())
	r.res.Seasons = checks

	season, err := r.askSeason(ctx, target.Title, checks)
	if err != nil {
		return media.Target{}, err
	}
	target.Season = &season

	episodes, err := series.Episodes(ctx, item.ID, season)
	if err != nil {
		return media.Target{}, fmt.Errorf("list episodes of season %d: %w", season, err)
	}
	target.ExpectedEpisodes = len(episodes)
	if wholeSeason(episodes, r.now()) {
		return target, nil
	}

	mode, err := r.ask(ctx, Question{
		Topic:   TopicEpisodeMode,
		Header:  "Episode Selection Mode",
		Message: "Would you like to automatically monitor all current and future episodes, or manually select episodes to download?",
		Choices: []Choice{
			{Key: ChoiceMonitorSeason, Label: "Monitor season"},
			{Key: ChoiceSingleEpisode, Label: "Select episode"},
		},
		Default: ChoiceMonitorSeason,
	})
	if err != nil {
		return media.Target{}, err
	}
	if mode.Key == ChoiceMonitorSeason {
		target.Mode = media.ModeMonitorSeason
		return target, nil
	}

	ep, err := r.askEpisode(ctx, episodes)
	if err != nil {
		return media.Target{}, err
	}
	target.Mode = media.ModeSingleEpisode
	target.Episode = &ep.EpisodeNumber
	target.EpisodeID = ep.ID
	return target, nil
}

// wholeSeason reports whether a season is best fetched as a single pack: every episode
// has aired and none is downloaded yet.
func wholeSeason(episodes []pvr.Episode, now time.Time) bool {
	if len(episodes) == 0 {
		return false
	}
	for _, e := range episodes {
		if e.HasFile || !e.Aired(now) {
			return false
		}
	}
	return true
}

func (r *run) askSeason(ctx context.Context, title string, checks []SeasonCheck) (int, error) {
	q := Question{
		Topic:   TopicSeason,
		Header:  "Choose Season",
		Message: fmt.Sprintf("Which season of %s do you want?", title),
	}
	for _, c := range checks {
		label := fmt.Sprintf("Season %d", c.Season)
		if c.Status == SeasonCompleted {
			label += " (downloaded)"
		}
		q.Choices = append(q.Choices, Choice{Key: strconv.Itoa(c.Season), Label: label})
	}
	c, err := r.ask(ctx, q)
	if err != nil {
		return 0, err
	}
	season, err := strconv.Atoi(c.Key)
	if err != nil {
		return 0, fmt.Errorf("season choice %q: %w", c.Key, err)
	}
	return season, nil
}

func (r *run) askEpisode(ctx context.Context, episodes []pvr.Episode) (pvr.Episode, error) {
	q := Question{
		Topic:   TopicEpisode,
		Header:  "Select Episode",
		Message: "Which episode do you want?",
	}
	for _, e := range episodes {
		label := fmt.Sprintf("E%02d %s", e.EpisodeNumber, e.Title)
		if e.HasFile {
			label += " (downloaded)"
		}
		q.Choices = append(q.Choices, Choice{Key: strconv.Itoa(e.EpisodeNumber), Label: label})
	}
	c, err := r.ask(ctx, q)
	if err != nil {
		return pvr.Episode{}, err
	}
	for _, e := range episodes {
		if strconv.Itoa(e.EpisodeNumber) == c.Key {
			return e, nil
		}
	}
	return pvr.Episode{}, fmt.Errorf("%w: episode %s", pvr.ErrItemNotFound, c.Key)
}

// ask forwards q to the prompter. Picking the cancel choice is reported as ErrCancelled.
func (r *run) ask(ctx context.Context, q Question) (Choice, error) {
	c, err := r.prompt.Ask(ctx, q)
	if err != nil {
		return Choice{}, err
	}
	if c.Key == ChoiceCancel {
		return Choice{}, ErrCancelled
	}
	return c, nil
}

func (r *run) confirm(ctx context.Context, topic Topic, header, message, yes, def string) error {
	_, err := r.ask(ctx, Question{
		Topic:   topic,
		Header:  header,
		Message: message,
		Choices: []Choice{{Key: yes, Label: labelFor(yes)}, {Key: ChoiceCancel, Label: "Cancel"}},
		Default: def,
	})
	return err
}

func labelFor(key string) string {
	switch key {
	case ChoiceRetry:
		return "Retry"
	default:
		return "Confirm"
	}
}

// autoAcquire runs the acquisition, offering bounded retries through error recovery.
func (r *run) autoAcquire(ctx context.Context, q quota.Result) (*Result, error) {
	target := r.res.Target
	err := r.confirm(ctx, TopicConfirm, "Confirm Automatic Download", autoApprovalMessage(r.actor, q), ChoiceConfirm, ChoiceConfirm)
	if errors.Is(err, ErrCancelled) {
		return r.abandon(ctx, "Request cancelled.")
	}
	if err != nil {
		return nil, err
	}

	for {
		if err := r.moveTo(StateAutoAcquiring); err != nil {
			return nil, err
		}
		r.res.Attempts++
		r.publish(ctx, &events.AcquisitionStarted{
			BaseEvent: events.NewBaseEvent(events.EventAcquisitionStarted, events.EntityTitle, target.ExternalID),
			RunID:     r.res.RunID,
			Target:    target.Key(),
			Mode:      string(target.Mode),
			Attempt:   r.res.Attempts,
		})

		out := r.deps.Acquirer.Acquire(ctx, target, func(msg string) {
			r.notify.Notify(Notice{Kind: NoticeProgress, Message: msg})
		})
		if out.Success {
			return r.approve(ctx, out)
		}

		r.res.Err = out.Err
		r.publish(ctx, &events.AcquisitionFailed{
			BaseEvent: events.NewBaseEvent(events.EventAcquisitionFailed, events.EntityTitle, target.ExternalID),
			RunID:     r.res.RunID,
			Target:    target.Key(),
			Reason:    out.Reason,
			Retryable: out.Retryable(),
		})
		if err := r.moveTo(StateErrorRecovery); err != nil {
			return nil, err
		}
		r.notify.Notify(Notice{Kind: NoticeFailed, Message: out.Reason})

		if !out.Retryable() {
			return r.abandon(ctx, out.Reason)
		}
		if r.res.Attempts > r.cfg.MaxRecoveryAttempts {
			return r.abandon(ctx, fmt.Sprintf("Giving up after %d attempts: %s", r.res.Attempts, out.Reason))
		}

		err := r.confirm(ctx, TopicRetry, "Download Error", retryMessage(target, out.Reason), ChoiceRetry, ChoiceCancel)
		if errors.Is(err, ErrCancelled) {
			return r.abandon(ctx, out.Reason)
		}
		if err != nil {
			return nil, err
		}
		r.log.Info("retrying acquisition", "attempt", r.res.Attempts+1)
	}
}

// approve records the successful acquisition as an approved request.
func (r *run) approve(ctx context.Context, out acquisition.Outcome) (*Result, error) {
	target := r.res.Target
	r.res.Release = out.Release
	r.res.Err = nil

	succeeded := &events.AcquisitionSucceeded{
		BaseEvent: events.NewBaseEvent(events.EventAcquisitionSucceeded, events.EntityTitle, target.ExternalID),
		RunID:     r.res.RunID,
		Target:    target.Key(),
	}
	if out.Release != nil {
		succeeded.ReleaseName = out.Release.Title
		succeeded.Indexer = out.Release.Indexer
	}
	r.publish(ctx, succeeded)

	if err := r.moveTo(StateNotifying); err != nil {
		return nil, err
	}
	req, err := r.deps.Requests.Create(ctx, r.actor, r.newRequest(request.StatusApproved))
	if err != nil {
		return nil, fmt.Errorf("record approved request: %w", err)
	}
	r.res.Request = req

	r.notify.Notify(Notice{Kind: NoticeSucceeded, Message: "Process completed"})
	return r.finish()
}

// createPending records a request for an administrator to review.
func (r *run) createPending(ctx context.Context) (*Result, error) {
	if err := r.moveTo(StateCreatingPendingRequest); err != nil {
		return nil, err
	}
	err := r.confirm(ctx, TopicConfirm, "Confirm Request", pendingMessage(r.res.Target), ChoiceConfirm, ChoiceConfirm)
	if errors.Is(err, ErrCancelled) {
		return r.abandon(ctx, "Request cancelled.")
	}
	if err != nil {
		return nil, err
	}

	req, err := r.deps.Requests.Create(ctx, r.actor, r.newRequest(request.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("record pending request: %w", err)
	}
	r.res.Request = req

	if err := r.moveTo(StateNotifying); err != nil {
		return nil, err
	}
	r.notify.Notify(Notice{Kind: NoticePending, Message: "Your request has been sent. An administrator will review it."})
	return r.finish()
}

func (r *run) newRequest(status request.Status) request.NewRequest {
	t := r.res.Target
	return request.NewRequest{
		UserID:  r.actor.ID,
		MediaID: t.ExternalID,
		Kind:    t.Kind,
		Season:  t.Season,
		Episode: t.Episode,
		Status:  status,
	}
}

func (r *run) finish() (*Result, error) {
	if err := r.moveTo(StateDone); err != nil {
		return nil, err
	}
	r.log.Info("workflow done", "state", r.res.State, "attempts", r.res.Attempts)
	return r.res, nil
}

// abandon ends the run without creating a request.
func (r *run) abandon(ctx context.Context, reason string) (*Result, error) {
	if err := r.moveTo(StateAbandoned); err != nil {
		return nil, err
	}
	r.res.Reason = reason
	r.publish(ctx, &events.WorkflowAbandoned{
		BaseEvent: events.NewBaseEvent(events.EventWorkflowAbandoned, events.EntityTitle, r.res.Target.ExternalID),
		RunID:     r.res.RunID,
		Reason:    reason,
	})
	r.notify.Notify(Notice{Kind: NoticeAbandoned, Message: reason})
	r.log.Info("workflow abandoned", "reason", reason, "attempts", r.res.Attempts)
	return r.res, nil
}

func (r *run) publish(ctx context.Context, e events.Event) {
	if err := r.deps.Bus.Publish(ctx, e); err != nil {
		r.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

func autoApprovalMessage(actor user.User, q quota.Result) string {
	if actor.IsAdmin {
		return "Requests made by administrators are approved automatically."
	}
	return fmt.Sprintf("You have %d/%d requests remaining that will be automatically approved. "+
		"Requests reset every %d days. After reaching this limit, further requests will require admin approval.",
		q.Remaining, q.Limit, q.WindowDays)
}

func pendingMessage(t media.Target) string {
	const approval = "An administrator will have to approve it before it appears in the library."
	switch {
	case t.Episode != nil:
		return fmt.Sprintf("Do you want to request episode %d of season %d? %s", *t.Episode, t.SeasonNumber(), approval)
	case t.Season != nil:
		return fmt.Sprintf("Do you want to request season %d? %s", *t.Season, approval)
	default:
		return fmt.Sprintf("Do you want to request %s? %s", t.Title, approval)
	}
}

func retryMessage(t media.Target, reason string) string {
	if t.Kind == media.KindSeries {
		return fmt.Sprintf("An error occurred while downloading the season: %s Do you want to retry downloading the series?", reason)
	}
	return fmt.Sprintf("An error occurred while downloading the movie: %s Do you want to retry downloading the movie?", reason)
}
