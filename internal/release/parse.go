package release

import (
	"regexp"
	"strconv"
	"strings"
)

// Resolution represents the video resolution of a release.
type Resolution int

const (
	ResolutionUnknown Resolution = iota
	ResolutionSD
	Resolution720p
	Resolution1080p
	Resolution2160p
)

func (r Resolution) String() string {
	switch r {
	case ResolutionSD:
		return "sd"
	case Resolution720p:
		return "720p"
	case Resolution1080p:
		return "1080p"
	case Resolution2160p:
		return "2160p"
	default:
		return "unknown"
	}
}

// Source represents the media source type of a release.
type Source int

const (
	SourceUnknown Source = iota
	SourceBluRay
	SourceWEBDL
	SourceWEBRip
	SourceHDTV
	SourceDVD
	SourceCAM
	SourceTelesync
)

func (s Source) String() string {
	switch s {
	case SourceBluRay:
		return "bluray"
	case SourceWEBDL:
		return "webdl"
	case SourceWEBRip:
		return "webrip"
	case SourceHDTV:
		return "hdtv"
	case SourceDVD:
		return "dvd"
	case SourceCAM:
		return "cam"
	case SourceTelesync:
		return "telesync"
	default:
		return "unknown"
	}
}

// Codec represents the video codec used in a release.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecX264
	CodecX265
)

// Info contains what could be read from a release title.
type Info struct {
	Title      string
	CleanTitle string
	Year       int
	Season     int
	Episodes   []int
	Resolution Resolution
	Source     Source
	Codec      Codec
	HDR        bool
	Lossless   bool // TrueHD, Atmos, DTS-HD MA, FLAC
	IsRemux    bool
	Proper     bool

	// IsCompleteSeason is set for season packs such as "S02" or "Season 2".
	IsCompleteSeason bool
}

var (
	episodeRe      = regexp.MustCompile(`(?i)\bS(\d{1,2})((?:[ .-]?E\d{1,3})+)\b`)
	episodeNumRe   = regexp.MustCompile(`(?i)E(\d{1,3})`)
	seasonPackRe   = regexp.MustCompile(`(?i)\b(?:S(\d{1,2})|Season[ .]?(\d{1,2}))\b`)
	splitSeasonRe  = regexp.MustCompile(`(?i)\bpart[ .]?\d\b`)
	yearRe         = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	resolutionRe   = regexp.MustCompile(`(?i)\b(2160p|4k|uhd|1080p|720p|576p|480p)\b`)
	webRe          = regexp.MustCompile(`(?i)\bweb\b`)
	telesyncRe     = regexp.MustCompile(`(?i)\b(ts|telesync|hdts|tc)\b`)
	camRe          = regexp.MustCompile(`(?i)\b(cam|hdcam|camrip)\b`)
	dolbyVisionRe  = regexp.MustCompile(`(?i)\b(dv|dovi|hdr10\+?|hdr10plus|hdr)\b`)
	separatorsRepl = strings.NewReplacer(".", " ", "_", " ")
)

// Parse extracts quality and episode information from a release title.
func Parse(name string) Info {
	var info Info
	spaced := separatorsRepl.Replace(name)
	lower := strings.ToLower(spaced)

	titleEnd := len(spaced)
	cut := func(idx int) {
		if idx > 0 && idx < titleEnd {
			titleEnd = idx
		}
	}

	if m := episodeRe.FindStringSubmatchIndex(spaced); m != nil {
		info.Season, _ = strconv.Atoi(spaced[m[2]:m[3]])
		info.Episodes = parseEpisodes(spaced[m[4]:m[5]])
		cut(m[0])
	} else if m := seasonPackRe.FindStringSubmatchIndex(spaced); m != nil {
		num := ""
		if m[2] >= 0 {
			num = spaced[m[2]:m[3]]
		} else {
			num = spaced[m[4]:m[5]]
		}
		info.Season, _ = strconv.Atoi(num)
		info.IsCompleteSeason = !splitSeasonRe.MatchString(spaced)
		cut(m[0])
	}

	for _, m := range yearRe.FindAllStringSubmatchIndex(spaced, -1) {
		// A leading year is part of the title ("2001 A Space Odyssey").
		if m[0] == 0 {
			continue
		}
		info.Year, _ = strconv.Atoi(spaced[m[2]:m[3]])
		cut(m[0])
		break
	}

	if m := resolutionRe.FindStringIndex(spaced); m != nil {
		info.Resolution = parseResolution(lower[m[0]:m[1]])
		cut(m[0])
	}

	info.Source = parseSource(lower)
	info.Codec = parseCodec(lower)
	info.HDR = dolbyVisionRe.MatchString(spaced)
	info.Lossless = containsAny(lower, "truehd", "atmos", "dts-hd", "dtshd", "dts hd", "flac")
	info.IsRemux = containsAny(lower, "remux")
	info.Proper = containsAny(lower, "proper", "repack", "rerip")

	info.Title = strings.TrimSpace(strings.Trim(strings.TrimSpace(spaced[:titleEnd]), "-([ "))
	info.CleanTitle = CleanTitle(info.Title)
	return info
}

func parseEpisodes(s string) []int {
	matches := episodeNumRe.FindAllStringSubmatch(s, -1)
	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, _ := strconv.Atoi(m[1])
		nums = append(nums, n)
	}
	// S01E01-E04 is a range; expand it.
	if len(nums) == 2 && strings.Contains(s, "-") && nums[1] > nums[0] {
		expanded := make([]int, 0, nums[1]-nums[0]+1)
		for n := nums[0]; n <= nums[1]; n++ {
			expanded = append(expanded, n)
		}
		return expanded
	}
	return nums
}

func parseResolution(s string) Resolution {
	switch s {
	case "2160p", "4k", "uhd":
		return Resolution2160p
	case "1080p":
		return Resolution1080p
	case "720p":
		return Resolution720p
	case "576p", "480p":
		return ResolutionSD
	}
	return ResolutionUnknown
}

func parseSource(lower string) Source {
	switch {
	case camRe.MatchString(lower):
		return SourceCAM
	case telesyncRe.MatchString(lower):
		return SourceTelesync
	case containsAny(lower, "bluray", "blu-ray", "bdrip", "brrip", "bdremux", "remux"):
		return SourceBluRay
	case containsAny(lower, "web-dl", "webdl"):
		return SourceWEBDL
	case containsAny(lower, "webrip", "web-rip"):
		return SourceWEBRip
	case webRe.MatchString(lower):
		return SourceWEBDL
	case containsAny(lower, "hdtv"):
		return SourceHDTV
	case containsAny(lower, "dvdrip", "dvd"):
		return SourceDVD
	}
	return SourceUnknown
}

func parseCodec(lower string) Codec {
	switch {
	case containsAny(lower, "x265", "h265", "h 265", "hevc"):
		return CodecX265
	case containsAny(lower, "x264", "h264", "h 264", "avc"):
		return CodecX264
	}
	return CodecUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
