// Package release ranks the candidate releases a PVR integration offers for a title.
//
// Custom-format scores come from rules the user configured in the PVR and always win
// when any candidate carries a positive one. Otherwise a heuristic built from the
// release title (resolution, source, codec, season completeness) picks the candidate.
package release

import (
	"github.com/vmunix/reqarr/internal/media"
)

// Candidate is one downloadable option returned by a PVR integration.
// Candidates are fetched per attempt and never cached.
type Candidate struct {
	GUID              string
	IndexerID         int
	Indexer           string
	Title             string
	CustomFormatScore int
	Size              int64

	// Series metadata reported by the PVR; zero values mean unknown.
	FullSeason     bool
	SeasonNumber   int
	EpisodeNumbers []int
}

// Context describes the title the candidates were fetched for.
type Context struct {
	Kind             media.Kind
	Title            string
	Season           int
	ExpectedEpisodes int
}

// ContextFor builds a scoring context from a resolved target.
func ContextFor(t media.Target) Context {
	return Context{
		Kind:             t.Kind,
		Title:            t.Title,
		Season:           t.SeasonNumber(),
		ExpectedEpisodes: t.ExpectedEpisodes,
	}
}

// SelectBest returns the preferred candidate, or false when none is suitable.
// An empty list is not an error; it simply yields no candidate.
// Ties keep the first candidate in input order.
func SelectBest(candidates []Candidate, ctx Context) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].CustomFormatScore > candidates[best].CustomFormatScore {
			best = i
		}
	}
	if candidates[best].CustomFormatScore > 0 {
		return candidates[best], true
	}

	best, bestScore := -1, 0
	for i, c := range candidates {
		if score := HeuristicScore(c, ctx); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Candidate{}, false
	}
	return candidates[best], true
}

// HeuristicScore is the fallback ranking used when no candidate has a custom-format score.
// Zero means the candidate is unsuitable.
func HeuristicScore(c Candidate, ctx Context) int {
	info := Parse(c.Title)

	quality := QualityScore(info)
	if quality == 0 {
		return 0
	}
	quality += titleBonus(info, ctx)
	if ctx.Kind != media.KindSeries {
		return quality
	}

	completeness, ok := seasonCompleteness(c, info, ctx)
	if !ok {
		return 0
	}
	return quality + completeness
}

// titleBonus favours releases named like the title. The PVR has already matched
// every candidate to the item, so releases under alternate titles still qualify.
func titleBonus(info Info, ctx Context) int {
	if ctx.Title == "" || info.CleanTitle == "" {
		return 0
	}
	if TitleSimilarity(info.CleanTitle, ctx.Title) < MinTitleSimilarity {
		return 0
	}
	return BonusTitleMatch
}

// seasonCompleteness scores how much of the wanted season a candidate covers.
// It reports false when the candidate belongs to another season.
func seasonCompleteness(c Candidate, info Info, ctx Context) (int, bool) {
	season := c.SeasonNumber
	if season == 0 {
		season = info.Season
	}
	if ctx.Season > 0 && season != 0 && season != ctx.Season {
		return 0, false
	}

	if c.FullSeason || info.IsCompleteSeason {
		return BonusFullSeason, true
	}

	episodes := len(c.EpisodeNumbers)
	if episodes == 0 {
		episodes = len(info.Episodes)
	}
	if ctx.ExpectedEpisodes <= 0 || episodes == 0 {
		return 0, true
	}
	if episodes >= ctx.ExpectedEpisodes {
		return BonusEpisodeCount, true
	}
	return BonusEpisodeCount * episodes / ctx.ExpectedEpisodes, true
}
