// Package pvr defines the personal-video-recorder integrations (Radarr, Sonarr)
// the request workflow drives, and the registration adapter that puts titles
// into their catalogs.
package pvr

//go:generate mockgen -destination=mocks/pvr.go -package=mocks . Integration,SeriesIntegration

import (
	"context"
	"time"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/release"
)

// Item is a title registered in a PVR catalog.
type Item struct {
	ID         int64
	ExternalID int64
	Title      string
	Year       int
	Kind       media.Kind
	Monitored  bool
	Seasons    []Season
}

// Season is one season of a registered series.
type Season struct {
	Number    int
	Monitored bool
}

// SeasonNumbers returns the regular season numbers, skipping specials (season 0).
func (i *Item) SeasonNumbers() []int {
	nums := make([]int, 0, len(i.Seasons))
	for _, s := range i.Seasons {
		if s.Number > 0 {
			nums = append(nums, s.Number)
		}
	}
	return nums
}

// Episode is one episode of a registered series.
type Episode struct {
	ID            int64
	SeasonNumber  int
	EpisodeNumber int
	Title         string
	HasFile       bool
	Monitored     bool
	AirDate       time.Time // zero when unknown
}

// Aired reports whether the episode aired at or before now.
// Episodes without an air date have not aired.
func (e Episode) Aired(now time.Time) bool {
	return !e.AirDate.IsZero() && !e.AirDate.After(now)
}

// Progress is the download state of a title or season.
type Progress struct {
	Progress float64 `json:"progress"` // percent, 0-100
	TimeLeft string  `json:"time_left"`
}

// RegisterOptions are passed to the PVR when a title is added.
type RegisterOptions struct {
	QualityProfileID    int
	RootFolderPath      string
	MinimumAvailability string // movies
	MonitorStrategy     string // series
}

// Integration is the per-kind PVR contract.
type Integration interface {
	// Lookup returns the catalog entry for a TMDB id, or ErrItemNotFound.
	Lookup(ctx context.Context, externalID int64) (*Item, error)
	// Register adds the title to the catalog.
	Register(ctx context.Context, externalID int64, opts RegisterOptions) error
	// Releases lists downloadable candidates for an item, optionally limited to a season.
	Releases(ctx context.Context, itemID int64, season *int) ([]release.Candidate, error)
	// Grab asks the PVR to download a release. False means the PVR declined it.
	Grab(ctx context.Context, guid string, indexerID int) (bool, error)
	// Progress returns the current download state, or nil when nothing is downloading.
	Progress(ctx context.Context, itemID int64, season *int) (*Progress, error)
}

// SeriesIntegration adds the season and episode operations only a series PVR offers.
type SeriesIntegration interface {
	Integration
	Episodes(ctx context.Context, seriesID int64, season int) ([]Episode, error)
	// SeasonCompleted reports whether every episode of the season has a file.
	SeasonCompleted(ctx context.Context, seriesID int64, season int) (bool, error)
	MonitorSeason(ctx context.Context, seriesID int64, season int) error
	SearchSeason(ctx context.Context, seriesID int64, season int) error
	MonitorEpisode(ctx context.Context, episodeID int64) error
	SearchEpisode(ctx context.Context, episodeID int64) error
}
