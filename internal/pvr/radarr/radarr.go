// Package radarr implements the movie PVR integration against the Radarr v3 API.
package radarr

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/pvr/arr"
	"github.com/vmunix/reqarr/internal/release"
)

// Client is a Radarr API client.
type Client struct {
	api *arr.Client
}

var _ pvr.Integration = (*Client)(nil)

// New creates a Radarr client from validated settings.
func New(settings pvr.Settings, log *slog.Logger, opts ...arr.Option) *Client {
	if settings.RequestsPerSecond > 0 {
		opts = append([]arr.Option{arr.WithRateLimit(settings.RequestsPerSecond)}, opts...)
	}
	return &Client{api: arr.New("radarr", settings.BaseURL, settings.APIKey, log, opts...)}
}

type movieResource struct {
	ID        int64  `json:"id"`
	TMDBID    int64  `json:"tmdbId"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Monitored bool   `json:"monitored"`
	HasFile   bool   `json:"hasFile"`
}

func (m movieResource) item() *pvr.Item {
	return &pvr.Item{
		ID:         m.ID,
		ExternalID: m.TMDBID,
		Title:      m.Title,
		Year:       m.Year,
		Kind:       media.KindMovie,
		Monitored:  m.Monitored,
	}
}

// Lookup finds a movie in the library by TMDB id.
func (c *Client) Lookup(ctx context.Context, tmdbID int64) (*pvr.Item, error) {
	var movies []movieResource
	query := url.Values{"tmdbId": {strconv.FormatInt(tmdbID, 10)}}
	if err := c.api.Get(ctx, "/api/v3/movie", query, &movies); err != nil {
		return nil, err
	}
	for _, m := range movies {
		if m.TMDBID == tmdbID {
			return m.item(), nil
		}
	}
	return nil, fmt.Errorf("radarr movie tmdb:%d: %w", tmdbID, pvr.ErrItemNotFound)
}

// Register adds a movie, resolving its metadata through Radarr's TMDB lookup.
func (c *Client) Register(ctx context.Context, tmdbID int64, opts pvr.RegisterOptions) error {
	var movie map[string]any
	query := url.Values{"tmdbId": {strconv.FormatInt(tmdbID, 10)}}
	if err := c.api.Get(ctx, "/api/v3/movie/lookup/tmdb", query, &movie); err != nil {
		return fmt.Errorf("lookup tmdb:%d: %w", tmdbID, err)
	}

	movie["qualityProfileId"] = opts.QualityProfileID
	movie["rootFolderPath"] = opts.RootFolderPath
	movie["minimumAvailability"] = opts.MinimumAvailability
	movie["monitored"] = true
	movie["addOptions"] = map[string]any{"searchForMovie": false}

	return c.api.Post(ctx, "/api/v3/movie", movie, nil)
}

// Releases searches the indexers for a movie. Season is ignored.
func (c *Client) Releases(ctx context.Context, movieID int64, _ *int) ([]release.Candidate, error) {
	var resources []arr.ReleaseResource
	query := url.Values{"movieId": {strconv.FormatInt(movieID, 10)}}
	if err := c.api.Get(ctx, "/api/v3/release", query, &resources); err != nil {
		return nil, err
	}
	return arr.Candidates(resources), nil
}

// Grab pushes a release to the download client. A 4xx response means Radarr refused it.
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

// Progress reports the queue state of a movie.
func (c *Client) Progress(ctx context.Context, movieID int64, _ *int) (*pvr.Progress, error) {
	var records []arr.QueueRecord
	query := url.Values{"movieId": {strconv.FormatInt(movieID, 10)}}
	if err := c.api.Get(ctx, "/api/v3/queue/details", query, &records); err != nil {
		return nil, err
	}
	return arr.AggregateProgress(records, nil), nil
}
