package pvr

import (
	"strings"

	"github.com/vmunix/reqarr/internal/media"
)

// DefaultMinimumAvailability is used for movies when none is configured.
const DefaultMinimumAvailability = "released"

// Settings configure one PVR integration. They are validated once when the
// integration is bound, not on every call.
type Settings struct {
	BaseURL             string
	APIKey              string
	QualityProfileID    int
	RootFolderPath      string
	MinimumAvailability string
	MonitorStrategy     string
	RequestsPerSecond   float64
}

// Validate returns a *ConfigError naming every missing field, or nil.
func (s Settings) Validate(name string, kind media.Kind) error {
	var missing []string
	if strings.TrimSpace(s.APIKey) == "" {
		missing = append(missing, "api_key")
	}
	if strings.TrimSpace(s.BaseURL) == "" {
		missing = append(missing, "url")
	}
	if s.QualityProfileID <= 0 {
		missing = append(missing, "quality_profile_id")
	}
	if strings.TrimSpace(s.RootFolderPath) == "" {
		missing = append(missing, "root_folder_path")
	}
	if kind == media.KindSeries && strings.TrimSpace(s.MonitorStrategy) == "" {
		missing = append(missing, "monitor_strategy")
	}
	if len(missing) > 0 {
		return &ConfigError{Integration: name, Missing: missing}
	}
	return nil
}

// RegisterOptions derives the registration options for a kind.
func (s Settings) RegisterOptions(kind media.Kind) RegisterOptions {
	opts := RegisterOptions{
		QualityProfileID: s.QualityProfileID,
		RootFolderPath:   s.RootFolderPath,
	}
	switch kind {
	case media.KindMovie:
		opts.MinimumAvailability = s.MinimumAvailability
		if opts.MinimumAvailability == "" {
			opts.MinimumAvailability = DefaultMinimumAvailability
		}
	case media.KindSeries:
		opts.MonitorStrategy = s.MonitorStrategy
	}
	return opts
}
