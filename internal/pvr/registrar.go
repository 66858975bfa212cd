package pvr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/vmunix/reqarr/internal/media"
)

// Binding pairs an integration with the settings it was configured with.
type Binding struct {
	Name        string
	Integration Integration
	Settings    Settings
}

type boundIntegration struct {
	name  string
	integ Integration
	opts  RegisterOptions
	err   error // configuration problem found at bind time
}

// Registrar ensures titles exist in the PVR catalog for their kind.
type Registrar struct {
	bindings map[media.Kind]boundIntegration
	inflight singleflight.Group
	logger   *slog.Logger
}

// NewRegistrar validates each binding's settings once. Invalid bindings are kept
// so that using them reports the configuration problem.
func NewRegistrar(bindings map[media.Kind]Binding, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registrar{
		bindings: make(map[media.Kind]boundIntegration, len(bindings)),
		logger:   logger.With("component", "registrar"),
	}
	for kind, b := range bindings {
		bound := boundIntegration{
			name:  b.Name,
			integ: b.Integration,
			opts:  b.Settings.RegisterOptions(kind),
			err:   b.Settings.Validate(b.Name, kind),
		}
		if bound.err != nil {
			r.logger.Warn("integration misconfigured", "integration", b.Name, "error", bound.err)
		}
		r.bindings[kind] = bound
	}
	return r
}

// Integration returns the integration bound to kind, or a configuration error.
func (r *Registrar) Integration(kind media.Kind) (Integration, error) {
	b, ok := r.bindings[kind]
	if !ok || b.integ == nil {
		return nil, &ConfigError{Integration: defaultName(kind), Missing: []string{"integration"}}
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.integ, nil
}

// Series returns the series integration, or a configuration error.
func (r *Registrar) Series() (SeriesIntegration, error) {
	integ, err := r.Integration(media.KindSeries)
	if err != nil {
		return nil, err
	}
	series, ok := integ.(SeriesIntegration)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not support seasons", ErrIntegrationConfig, integ)
	}
	return series, nil
}

// EnsureRegistered returns the catalog entry for externalID, adding the title first
// when it is absent. Calling it again for the same title returns the existing entry.
// Concurrent calls for the same title share one registration; it is detached from
// any single caller's cancellation, and each caller stops waiting when its own ctx ends.
func (r *Registrar) EnsureRegistered(ctx context.Context, externalID int64, kind media.Kind) (*Item, error) {
	integ, err := r.Integration(kind)
	if err != nil {
		return nil, err
	}

	key := string(kind) + ":" + strconv.FormatInt(externalID, 10)
	shared := context.WithoutCancel(ctx)
	ch := r.inflight.DoChan(key, func() (any, error) {
		return r.ensure(shared, integ, externalID, kind)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Item), nil
	}
}

func (r *Registrar) ensure(ctx context.Context, integ Integration, externalID int64, kind media.Kind) (*Item, error) {
	b := r.bindings[kind]

	item, err := integ.Lookup(ctx, externalID)
	switch {
	case err == nil:
		return checkItem(item, kind)
	case !errors.Is(err, ErrItemNotFound):
		return nil, fmt.Errorf("lookup %s %d: %w", kind, externalID, err)
	}

	r.logger.Info("registering title", "integration", b.name, "external_id", externalID, "kind", kind)
	if err := integ.Register(ctx, externalID, b.opts); err != nil {
		return nil, fmt.Errorf("register %s %d: %w", kind, externalID, err)
	}

	item, err = integ.Lookup(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("lookup %s %d after register: %w", kind, externalID, err)
	}
	return checkItem(item, kind)
}

func checkItem(item *Item, kind media.Kind) (*Item, error) {
	if item == nil {
		return nil, ErrItemNotFound
	}
	if kind == media.KindSeries && len(item.SeasonNumbers()) == 0 {
		return nil, fmt.Errorf("%s: %w", item.Title, ErrNoSeasons)
	}
	return item, nil
}

func defaultName(kind media.Kind) string {
	if kind == media.KindSeries {
		return "sonarr"
	}
	return "radarr"
}
