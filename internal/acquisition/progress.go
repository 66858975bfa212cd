package acquisition

import (
	"context"
	"errors"
	"time"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
)

// Progress returns the download state of a title, or nil when nothing is downloading.
// Series progress is only reported per season.
func (c *Coordinator) Progress(ctx context.Context, kind media.Kind, externalID int64, season *int) (*pvr.Progress, error) {
	if kind == media.KindSeries && season == nil {
		return nil, nil
	}

	integ, err := c.integrations.Integration(kind)
	if err != nil {
		return nil, err
	}

	item, err := integ.Lookup(ctx, externalID)
	if errors.Is(err, pvr.ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p, err := integ.Progress(ctx, item.ID, season)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Progress == 0 {
		return nil, nil
	}
	return p, nil
}

// Watch polls Progress every interval and hands each reading to fn. It returns when
// the download completes, when a download it saw disappears from the queue, or
// when ctx is cancelled.
func (c *Coordinator) Watch(ctx context.Context, kind media.Kind, externalID int64, season *int,
	interval time.Duration, fn func(*pvr.Progress)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := false
	for {
		p, err := c.Progress(ctx, kind, externalID, season)
		if err != nil {
			return err
		}
		fn(p)

		switch {
		case p != nil && p.Progress >= 100:
			return nil
		case p == nil && seen:
			return nil
		}
		seen = seen || p != nil

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
