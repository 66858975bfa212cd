// Package media holds the value types shared by the request, scoring and PVR layers.
package media

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the kind of title a request targets.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

func (k Kind) String() string { return string(k) }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// ParseKind accepts "movie"/"series" plus the legacy numeric media types (0 = movie, 1 = series)
// and the "tv" alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "0":
		return KindMovie, nil
	case "series", "tv", "show", "1":
		return KindSeries, nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// EpisodeMode describes how a series season is to be acquired.
type EpisodeMode string

const (
	// ModeWholeTitle acquires the best release for the movie or the whole season.
	ModeWholeTitle EpisodeMode = "whole"
	// ModeMonitorSeason monitors the season in the PVR and triggers a season search.
	ModeMonitorSeason EpisodeMode = "monitor_season"
	// ModeSingleEpisode monitors and searches a single episode.
	ModeSingleEpisode EpisodeMode = "episode"
)

// Target is the fully resolved thing to acquire. It is passed by value between
// orchestrator steps.
type Target struct {
	Kind       Kind
	ExternalID int64 // catalog id (TMDB)
	ItemID     int64 // id inside the PVR
	Title      string
	Season     *int
	Episode    *int
	EpisodeID  int64 // PVR episode id, set for ModeSingleEpisode
	Mode       EpisodeMode

	// ExpectedEpisodes is the number of episodes the season is known to have.
	ExpectedEpisodes int
}

// Key identifies the target for in-flight bookkeeping, e.g. "movie:603" or "series:1399:s2".
func (t Target) Key() string {
	k := string(t.Kind) + ":" + strconv.FormatInt(t.ExternalID, 10)
	if t.Season != nil {
		k += ":s" + strconv.Itoa(*t.Season)
	}
	if t.Episode != nil {
		k += ":e" + strconv.Itoa(*t.Episode)
	}
	return k
}

// SeasonNumber returns the season or 0 when unset.
func (t Target) SeasonNumber() int {
	if t.Season == nil {
		return 0
	}
	return *t.Season
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}
