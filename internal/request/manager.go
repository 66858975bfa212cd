package request

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/reqarr/internal/events"
	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/user"
)

// NewRequest holds the caller-supplied fields of a request to create.
type NewRequest struct {
	UserID  string
	MediaID int64
	Kind    media.Kind
	Season  *int
	Episode *int
	Status  Status // Pending when empty
}

// Manager applies the authorization rules for requests and records their lifecycle events.
type Manager struct {
	store *Store
	bus   *events.Bus
	now   func() time.Time
	log   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for timestamps and windows.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a request manager. The bus may be nil.
func NewManager(store *Store, bus *events.Bus, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store: store,
		bus:   bus,
		now:   time.Now,
		log:   logger.With("component", "requests"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create stores a new request. A non-admin may only create requests for themself,
// and a request starts either Pending or Approved.
func (m *Manager) Create(ctx context.Context, actor user.User, in NewRequest) (*Request, error) {
	if !actor.IsAdmin && !actor.Is(in.UserID) {
		return nil, fmt.Errorf("create request for another user: %w", ErrForbidden)
	}
	if in.Status != "" && in.Status != StatusPending && in.Status != StatusApproved {
		return nil, fmt.Errorf("%w: a request cannot start as %s", ErrInvalidRequest, in.Status)
	}

	r := &Request{
		UserID:  in.UserID,
		MediaID: in.MediaID,
		Kind:    in.Kind,
		Season:  in.Season,
		Episode: in.Episode,
		Status:  in.Status,
	}
	if err := m.store.Add(ctx, r, m.now()); err != nil {
		return nil, err
	}

	m.log.Info("request created",
		"request_id", r.ID,
		"user_id", r.UserID,
		"media_id", r.MediaID,
		"kind", r.Kind,
		"status", r.Status)
	m.publish(ctx, &events.RequestCreated{
		BaseEvent: events.NewBaseEvent(events.EventRequestCreated, events.EntityRequest, r.ID),
		UserID:    r.UserID,
		MediaID:   r.MediaID,
		Kind:      string(r.Kind),
		Season:    r.Season,
		Episode:   r.Episode,
		Status:    string(r.Status),
	})
	return r, nil
}

// Get returns a request visible to the actor.
func (m *Manager) Get(ctx context.Context, actor user.User, id int64) (*Request, error) {
	r, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !actor.Is(r.UserID) {
		return nil, fmt.Errorf("view request %d: %w", id, ErrForbidden)
	}
	return r, nil
}

// UpdateStatus approves or declines a request. Only admins may do this.
func (m *Manager) UpdateStatus(ctx context.Context, actor user.User, id int64, to Status) (*Request, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("update request %d: %w", id, ErrForbidden)
	}
	r, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := r.Status
	if err := m.store.Transition(ctx, r, to, m.now()); err != nil {
		return nil, err
	}

	m.log.Info("request status changed", "request_id", id, "from", from, "to", to, "actor_id", actor.ID)
	m.publish(ctx, &events.RequestStatusChanged{
		BaseEvent: events.NewBaseEvent(events.EventRequestStatusChanged, events.EntityRequest, id),
		From:      string(from),
		To:        string(to),
		ActorID:   actor.ID,
	})
	return r, nil
}

// Delete removes a request owned by the actor, or any request when the actor is an admin.
func (m *Manager) Delete(ctx context.Context, actor user.User, id int64) error {
	r, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin && !actor.Is(r.UserID) {
		return fmt.Errorf("delete request %d: %w", id, ErrForbidden)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.log.Info("request deleted", "request_id", id, "actor_id", actor.ID)
	m.publish(ctx, &events.RequestDeleted{
		BaseEvent: events.NewBaseEvent(events.EventRequestDeleted, events.EntityRequest, id),
		ActorID:   actor.ID,
	})
	return nil
}

// CountInWindow counts the requests userID created within [asOf - days, asOf].
// Only admins and the user themself may ask.
func (m *Manager) CountInWindow(ctx context.Context, actor user.User, userID string, days int, asOf time.Time) (int, error) {
	if !actor.IsAdmin && !actor.Is(userID) {
		return 0, fmt.Errorf("count requests of %s: %w", userID, ErrForbidden)
	}
	if days < 0 {
		return 0, fmt.Errorf("%w: negative window of %d days", ErrInvalidRequest, days)
	}
	since := asOf.AddDate(0, 0, -days)
	return m.store.Count(ctx, Filter{UserID: &userID, Since: &since, Until: &asOf})
}

// List returns every request for admins and the actor's own requests otherwise.
func (m *Manager) List(ctx context.Context, actor user.User) ([]*Request, error) {
	if actor.IsAdmin {
		return m.store.List(ctx, Filter{})
	}
	return m.store.List(ctx, Filter{UserID: &actor.ID})
}

// ListByUser returns the requests of userID. Non-admins may only list their own.
func (m *Manager) ListByUser(ctx context.Context, actor user.User, userID string) ([]*Request, error) {
	if !actor.IsAdmin && !actor.Is(userID) {
		return nil, fmt.Errorf("list requests of %s: %w", userID, ErrForbidden)
	}
	return m.store.List(ctx, Filter{UserID: &userID})
}

// ListByMedia returns every request for a title, regardless of requester.
func (m *Manager) ListByMedia(ctx context.Context, mediaID int64) ([]*Request, error) {
	return m.store.List(ctx, Filter{MediaID: &mediaID})
}

// ListStatus returns the requests in the given status visible to the actor.
func (m *Manager) ListStatus(ctx context.Context, actor user.User, status Status) ([]*Request, error) {
	f := Filter{Status: &status}
	if !actor.IsAdmin {
		f.UserID = &actor.ID
	}
	return m.store.List(ctx, f)
}

func (m *Manager) publish(ctx context.Context, e events.Event) {
	if err := m.bus.Publish(ctx, e); err != nil {
		m.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}
