package arr

import (
	"fmt"
	"time"

	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/release"
)

// ReleaseResource is an entry of GET /api/v3/release.
type ReleaseResource struct {
	GUID              string `json:"guid"`
	IndexerID         int    `json:"indexerId"`
	Indexer           string `json:"indexer"`
	Title             string `json:"title"`
	CustomFormatScore int    `json:"customFormatScore"`
	Size              int64  `json:"size"`
	Rejected          bool   `json:"rejected"`
	FullSeason        bool   `json:"fullSeason"`
	SeasonNumber      int    `json:"seasonNumber"`
	EpisodeNumbers    []int  `json:"episodeNumbers"`
}

// Candidate converts the resource into a scoring candidate.
func (r ReleaseResource) Candidate() release.Candidate {
	return release.Candidate{
		GUID:              r.GUID,
		IndexerID:         r.IndexerID,
		Indexer:           r.Indexer,
		Title:             r.Title,
		CustomFormatScore: r.CustomFormatScore,
		Size:              r.Size,
		FullSeason:        r.FullSeason,
		SeasonNumber:      r.SeasonNumber,
		EpisodeNumbers:    r.EpisodeNumbers,
	}
}

// Candidates converts a release listing, dropping releases the PVR has rejected.
func Candidates(resources []ReleaseResource) []release.Candidate {
	out := make([]release.Candidate, 0, len(resources))
	for _, r := range resources {
		if r.Rejected {
			continue
		}
		out = append(out, r.Candidate())
	}
	return out
}

// GrabRequest is the body of POST /api/v3/release.
type GrabRequest struct {
	GUID      string `json:"guid"`
	IndexerID int    `json:"indexerId"`
}

// QueueRecord is an entry of GET /api/v3/queue/details.
type QueueRecord struct {
	Size         float64 `json:"size"`
	SizeLeft     float64 `json:"sizeleft"`
	TimeLeft     string  `json:"timeleft"`
	Status       string  `json:"status"`
	SeasonNumber *int    `json:"seasonNumber,omitempty"`
	Episode      *struct {
		SeasonNumber int `json:"seasonNumber"`
	} `json:"episode,omitempty"`
}

func (q QueueRecord) season() (int, bool) {
	if q.SeasonNumber != nil {
		return *q.SeasonNumber, true
	}
	if q.Episode != nil {
		return q.Episode.SeasonNumber, true
	}
	return 0, false
}

// AggregateProgress folds queue records into one progress value. Records for other
// seasons are ignored when season is set. It returns nil when nothing has downloaded.
func AggregateProgress(records []QueueRecord, season *int) *pvr.Progress {
	var size, left float64
	var timeLeft time.Duration
	var rawTimeLeft string
	for _, r := range records {
		if season != nil {
			if s, ok := r.season(); ok && s != *season {
				continue
			}
		}
		size += r.Size
		left += r.SizeLeft
		if d, err := parseTimeLeft(r.TimeLeft); err == nil && d > timeLeft {
			timeLeft = d
			rawTimeLeft = r.TimeLeft
		}
	}
	if size <= 0 {
		return nil
	}
	progress := (size - left) / size * 100
	if progress <= 0 {
		return nil
	}
	return &pvr.Progress{Progress: progress, TimeLeft: rawTimeLeft}
}

// parseTimeLeft reads the *arr "hh:mm:ss" or "d.hh:mm:ss" format.
func parseTimeLeft(s string) (time.Duration, error) {
	var days, h, m, sec int
	if _, err := fmt.Sscanf(s, "%d.%d:%d:%d", &days, &h, &m, &sec); err == nil {
		return time.Duration(days)*24*time.Hour + time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
	}
	days = 0
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("parse time left %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// Command is the body of POST /api/v3/command.
type Command struct {
	Name         string  `json:"name"`
	SeriesID     int64   `json:"seriesId,omitempty"`
	SeasonNumber *int    `json:"seasonNumber,omitempty"`
	EpisodeIDs   []int64 `json:"episodeIds,omitempty"`
	MovieIDs     []int64 `json:"movieIds,omitempty"`
}
