// Package sonarr implements the series PVR integration against the Sonarr v3 API.
package sonarr

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/pvr/arr"
	"github.com/vmunix/reqarr/internal/release"
)

// Client is a Sonarr API client.
type Client struct {
	api *arr.Client
}

var _ pvr.SeriesIntegration = (*Client)(nil)

// New creates a Sonarr client from validated settings.
func New(settings pvr.Settings, log *slog.Logger, opts ...arr.Option) *Client {
	if settings.RequestsPerSecond > 0 {
		opts = append([]arr.Option{arr.WithRateLimit(settings.RequestsPerSecond)}, opts...)
	}
	return &Client{api: arr.New("sonarr", settings.BaseURL, settings.APIKey, log, opts...)}
}

type seasonResource struct {
	SeasonNumber int  `json:"seasonNumber"`
	Monitored    bool `json:"monitored"`
}

type seriesResource struct {
	ID        int64            `json:"id"`
	TMDBID    int64            `json:"tmdbId"`
	Title     string           `json:"title"`
	Year      int              `json:"year"`
	Monitored bool             `json:"monitored"`
	Seasons   []seasonResource `json:"seasons"`
}

func (s seriesResource) item() *pvr.Item {
	item := &pvr.Item{
		ID:         s.ID,
		ExternalID: s.TMDBID,
		Title:      s.Title,
		Year:       s.Year,
		Kind:       media.KindSeries,
		Monitored:  s.Monitored,
	}
	for _, season := range s.Seasons {
		item.Seasons = append(item.Seasons, pvr.Season{Number: season.SeasonNumber, Monitored: season.Monitored})
	}
	return item
}

type episodeResource struct {
	ID            int64      `json:"id"`
	SeasonNumber  int        `json:"seasonNumber"`
	EpisodeNumber int        `json:"episodeNumber"`
	Title         string     `json:"title"`
	HasFile       bool       `json:"hasFile"`
	Monitored     bool       `json:"monitored"`
	AirDateUTC    *time.Time `json:"airDateUtc,omitempty"`
}

// Lookup finds a series in the library by TMDB id.
func (c *Client) Lookup(ctx context.Context, tmdbID int64) (*pvr.Item, error) {
	var series []seriesResource
	if err := c.api.Get(ctx, "/api/v3/series", nil, &series); err != nil {
		return nil, err
	}
	for _, s := range series {
		if s.TMDBID == tmdbID {
			return s.item(), nil
		}
	}
	return nil, fmt.Errorf("sonarr series tmdb:%d: %w", tmdbID, pvr.ErrItemNotFound)
}

// Register adds a series, resolving its metadata through Sonarr's lookup.
func (c *Client) Register(ctx context.Context, tmdbID int64, opts pvr.RegisterOptions) error {
	var results []map[string]any
	query := url.Values{"term": {"tmdb:" + strconv.FormatInt(tmdbID, 10)}}
	if err := c.api.Get(ctx, "/api/v3/series/lookup", query, &results); err != nil {
		return fmt.Errorf("lookup tmdb:%d: %w", tmdbID, err)
	}
	if len(results) == 0 {
		return fmt.Errorf("sonarr lookup tmdb:%d: %w", tmdbID, pvr.ErrItemNotFound)
	}

	series := results[0]
	series["qualityProfileId"] = opts.QualityProfileID
	series["rootFolderPath"] = opts.RootFolderPath
	series["monitored"] = true
	series["seasonFolder"] = true
	series["addOptions"] = map[string]any{
		"monitor":                  opts.MonitorStrategy,
		"searchForMissingEpisodes": false,
	}

	return c.api.Post(ctx, "/api/v3/series", series, nil)
}

// Releases searches the indexers for one season of a series.
func (c *Client) Releases(ctx context.Context, seriesID int64, season *int) ([]release.Candidate, error) {
	query := url.Values{"seriesId": {strconv.FormatInt(seriesID, 10)}}
	if season != nil {
		query.Set("seasonNumber", strconv.Itoa(*season))
	}
	var resources []arr.ReleaseResource
	if err := c.api.Get(ctx, "/api/v3/release", query, &resources); err != nil {
		return nil, err
	}
	return arr.Candidates(resources), nil
}

// Grab pushes a release to the download client. A 4xx response means Sonarr refused it.
func (c *Client) Grab(ctx context.Context, guid string, indexerID int) (bool, error) {
	err := c.api.Post(ctx, "/api/v3/release", arr.GrabRequest{GUID: guid, IndexerID: indexerID}, nil)
	if arr.IsClientError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Progress reports the queue state of a series, optionally limited to a season.
func (c *Client) Progress(ctx context.Context, seriesID int64, season *int) (*pvr.Progress, error) {
	query := url.Values{
		"seriesId":       {strconv.FormatInt(seriesID, 10)},
		"includeEpisode": {"true"},
	}
	var records []arr.QueueRecord
	if err := c.api.Get(ctx, "/api/v3/queue/details", query, &records); err != nil {
		return nil, err
	}
	return arr.AggregateProgress(records, season), nil
}

// Episodes lists the episodes of a season.
func (c *Client) Episodes(ctx context.Context, seriesID int64, season int) ([]pvr.Episode, error) {
	query := url.Values{
		"seriesId":     {strconv.FormatInt(seriesID, 10)},
		"seasonNumber": {strconv.Itoa(season)},
	}
	var resources []episodeResource
	if err := c.api.Get(ctx, "/api/v3/episode", query, &resources); err != nil {
		return nil, err
	}

	episodes := make([]pvr.Episode, 0, len(resources))
	for _, r := range resources {
		ep := pvr.Episode{
			ID:            r.ID,
			SeasonNumber:  r.SeasonNumber,
			EpisodeNumber: r.EpisodeNumber,
			Title:         r.Title,
			HasFile:       r.HasFile,
			Monitored:     r.Monitored,
		}
		if r.AirDateUTC != nil {
			ep.AirDate = *r.AirDateUTC
		}
		episodes = append(episodes, ep)
	}
	return episodes, nil
}

// SeasonCompleted reports whether every episode of the season has a file.
func (c *Client) SeasonCompleted(ctx context.Context, seriesID int64, season int) (bool, error) {
	episodes, err := c.Episodes(ctx, seriesID, season)
	if err != nil {
		return false, err
	}
	if len(episodes) == 0 {
		return false, nil
	}
	for _, ep := range episodes {
		if !ep.HasFile {
			return false, nil
		}
	}
	return true, nil
}

// MonitorSeason monitors the series and the given season. Other seasons keep their state.
func (c *Client) MonitorSeason(ctx context.Context, seriesID int64, season int) error {
	path := "/api/v3/series/" + strconv.FormatInt(seriesID, 10)

	var series map[string]any
	if err := c.api.Get(ctx, path, nil, &series); err != nil {
		return err
	}

	series["monitored"] = true
	seasons, _ := series["seasons"].([]any)
	found := false
	for _, s := range seasons {
		entry, ok := s.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := entry["seasonNumber"].(float64); ok && int(n) == season {
			entry["monitored"] = true
			found = true
		}
	}
	if !found {
		return fmt.Errorf("season %d of series %d: %w", season, seriesID, pvr.ErrItemNotFound)
	}

	return c.api.Put(ctx, path, series, nil)
}

// SearchSeason queues a season search.
func (c *Client) SearchSeason(ctx context.Context, seriesID int64, season int) error {
	return c.api.Post(ctx, "/api/v3/command", arr.Command{
		Name:         "SeasonSearch",
		SeriesID:     seriesID,
		SeasonNumber: &season,
	}, nil)
}

// MonitorEpisode marks one episode as monitored.
func (c *Client) MonitorEpisode(ctx context.Context, episodeID int64) error {
	body := map[string]any{
		"episodeIds": []int64{episodeID},
		"monitored":  true,
	}
	return c.api.Put(ctx, "/api/v3/episode/monitor", body, nil)
}

// SearchEpisode queues a search for one episode.
func (c *Client) SearchEpisode(ctx context.Context, episodeID int64) error {
	return c.api.Post(ctx, "/api/v3/command", arr.Command{
		Name:       "EpisodeSearch",
		EpisodeIDs: []int64{episodeID},
	}, nil)
}
