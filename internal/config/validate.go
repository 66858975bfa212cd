package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validApprovalMethods = map[string]bool{
	"quota": true, "manual": true,
}

var validMonitorStrategies = map[string]bool{
	"all": true, "future": true, "missing": true, "existing": true, "pilot": true,
	"firstSeason": true, "latestSeason": true, "none": true,
}

var validAvailability = map[string]bool{
	"announced": true, "inCinemas": true, "released": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid). Integration settings that are
// merely incomplete are not errors here; the integration reports them when used.
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Request policy
	r := c.Requests
	if r.ApprovalMethod != "" && !validApprovalMethods[r.ApprovalMethod] {
		errs = append(errs, fmt.Sprintf("requests.approval_method: must be quota or manual; got %q", r.ApprovalMethod))
	}
	if r.DelayInDays < 0 {
		errs = append(errs, fmt.Sprintf("requests.delay_in_days: must not be negative, got %d", r.DelayInDays))
	}
	if r.MovieLimit != nil && *r.MovieLimit < 0 {
		errs = append(errs, fmt.Sprintf("requests.movie_limit: must not be negative, got %d", *r.MovieLimit))
	}
	if r.SeriesLimit != nil && *r.SeriesLimit < 0 {
		errs = append(errs, fmt.Sprintf("requests.series_limit: must not be negative, got %d", *r.SeriesLimit))
	}

	// Acquisition
	if c.Acquisition.MaxRecoveryAttempts < 0 {
		errs = append(errs, fmt.Sprintf("acquisition.max_recovery_attempts: must not be negative, got %d", c.Acquisition.MaxRecoveryAttempts))
	}
	if c.Acquisition.FetchDelay.Duration < 0 {
		errs = append(errs, "acquisition.fetch_delay: must not be negative")
	}

	// Integrations
	errs = append(errs, validateIntegration("integrations.radarr", c.Integrations.Radarr)...)
	errs = append(errs, validateIntegration("integrations.sonarr", c.Integrations.Sonarr)...)
	if s := c.Integrations.Sonarr; s != nil && s.MonitorStrategy != "" && !validMonitorStrategies[s.MonitorStrategy] {
		errs = append(errs, fmt.Sprintf("integrations.sonarr.monitor_strategy: unknown strategy %q", s.MonitorStrategy))
	}
	if r := c.Integrations.Radarr; r != nil && !validAvailability[r.MinimumAvailability] {
		errs = append(errs, fmt.Sprintf("integrations.radarr.minimum_availability: must be announced, inCinemas or released; got %q", r.MinimumAvailability))
	}

	// Events
	if c.Events.Retention.Duration < 0 {
		errs = append(errs, "events.retention: must not be negative")
	}

	return errs
}

func validateIntegration(prefix string, ic *IntegrationConfig) []string {
	if ic == nil {
		return nil
	}
	var errs []string
	if ic.URL != "" {
		u, err := url.Parse(ic.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s.url: must be an http(s) URL, got %q", prefix, ic.URL))
		}
	}
	if ic.QualityProfileID < 0 {
		errs = append(errs, fmt.Sprintf("%s.quality_profile_id: must not be negative, got %d", prefix, ic.QualityProfileID))
	}
	if ic.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Sprintf("%s.requests_per_second: must not be negative", prefix))
	}
	return errs
}
