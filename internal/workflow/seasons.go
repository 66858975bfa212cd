package workflow

import (
	"context"
	"slices"

	"github.com/sourcegraph/conc/pool"

	"github.com/vmunix/reqarr/internal/pvr"
)

// SeasonStatus is the result of one season-completion check.
type SeasonStatus int

const (
	SeasonNotCompleted SeasonStatus = iota
	SeasonCompleted
	SeasonErrored
)

// SeasonCheck is the outcome of checking one season.
type SeasonCheck struct {
	Season int
	Status SeasonStatus
	Err    error
}

// maxSeasonChecks bounds the concurrent requests made against the series PVR.
const maxSeasonChecks = 8

// checkSeasons asks the PVR whether each season is fully downloaded, all seasons at once.
// An errored check is reported as not completed so one failing season cannot block the
// others. Results are ordered by season.
func (o *Orchestrator) checkSeasons(ctx context.Context, series pvr.SeriesIntegration, seriesID int64, seasons []int) []SeasonCheck {
	p := pool.NewWithResults[SeasonCheck]().WithMaxGoroutines(maxSeasonChecks)
	for _, season := range seasons {
		p.Go(func() SeasonCheck {
			done, err := series.SeasonCompleted(ctx, seriesID, season)
			switch {
			case err != nil:
				return SeasonCheck{Season: season, Status: SeasonErrored, Err: err}
			case done:
				return SeasonCheck{Season: season, Status: SeasonCompleted}
			default:
				return SeasonCheck{Season: season, Status: SeasonNotCompleted}
			}
		})
	}

	checks := p.Wait()
	for i, c := range checks {
		if c.Status == SeasonErrored {
			o.logger.Debug("season check failed, treating as not completed",
				"series_id", seriesID, "season", c.Season, "error", c.Err)
			checks[i].Status = SeasonNotCompleted
		}
	}
	slices.SortFunc(checks, func(a, b SeasonCheck) int { return a.Season - b.Season })
	return checks
}
