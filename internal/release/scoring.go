package release

// Base scores for resolutions.
const (
	ScoreResolution2160p = 100
	ScoreResolution1080p = 80
	ScoreResolution720p  = 60
	ScoreResolutionSD    = 40
	ScoreResolutionOther = 20
)

// Bonus values for release attributes.
const (
	BonusBluRay   = 30
	BonusWEBDL    = 25
	BonusWEBRip   = 20
	BonusHDTV     = 15
	BonusDVD      = 10
	BonusX265     = 10
	BonusX264     = 8
	BonusHDR      = 15
	BonusLossless = 15
	BonusRemux    = 20
	BonusProper   = 5
)

// BonusTitleMatch is added when the release name matches the requested title.
const BonusTitleMatch = 5

// Series completeness bonuses.
const (
	BonusFullSeason   = 50
	BonusEpisodeCount = 30
)

func resolutionScore(r Resolution) int {
	switch r {
	case Resolution2160p:
		return ScoreResolution2160p
	case Resolution1080p:
		return ScoreResolution1080p
	case Resolution720p:
		return ScoreResolution720p
	case ResolutionSD:
		return ScoreResolutionSD
	default:
		return ScoreResolutionOther
	}
}

func sourceBonus(s Source) int {
	switch s {
	case SourceBluRay:
		return BonusBluRay
	case SourceWEBDL:
		return BonusWEBDL
	case SourceWEBRip:
		return BonusWEBRip
	case SourceHDTV:
		return BonusHDTV
	case SourceDVD:
		return BonusDVD
	}
	return 0
}

// QualityScore scores the technical quality of a parsed release.
// Zero means nothing recognisable was found, or the source is a cam/telesync.
func QualityScore(info Info) int {
	if info.Source == SourceCAM || info.Source == SourceTelesync {
		return 0
	}
	if info.Resolution == ResolutionUnknown && info.Source == SourceUnknown {
		return 0
	}

	score := resolutionScore(info.Resolution) + sourceBonus(info.Source)
	switch info.Codec {
	case CodecX265:
		score += BonusX265
	case CodecX264:
		score += BonusX264
	}
	if info.HDR {
		score += BonusHDR
	}
	if info.Lossless {
		score += BonusLossless
	}
	if info.IsRemux {
		score += BonusRemux
	}
	if info.Proper {
		score += BonusProper
	}
	return score
}
