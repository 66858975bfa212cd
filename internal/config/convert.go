package config

import (
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/quota"
)

// QuotaPolicy converts the [requests] section, filling unset values with the defaults.
func (c *Config) QuotaPolicy() quota.Policy {
	p := quota.DefaultPolicy()
	r := c.Requests
	if r.AllowRequests != nil {
		p.AllowRequests = *r.AllowRequests
	}
	if r.ApprovalMethod != "" {
		p.ApprovalMethod = quota.ApprovalMethod(r.ApprovalMethod)
	}
	if r.DelayInDays > 0 {
		p.WindowDays = r.DelayInDays
	}
	if r.MovieLimit != nil {
		p.MovieLimit = *r.MovieLimit
	}
	if r.SeriesLimit != nil {
		p.SeriesLimit = *r.SeriesLimit
	}
	return p
}

// Settings converts an integration section. A nil section yields empty settings, which
// the registrar reports as incomplete.
func (ic *IntegrationConfig) Settings() pvr.Settings {
	if ic == nil {
		return pvr.Settings{}
	}
	return pvr.Settings{
		BaseURL:             ic.URL,
		APIKey:              ic.APIKey,
		QualityProfileID:    ic.QualityProfileID,
		RootFolderPath:      ic.RootFolderPath,
		MinimumAvailability: ic.MinimumAvailability,
		MonitorStrategy:     ic.MonitorStrategy,
		RequestsPerSecond:   ic.RequestsPerSecond,
	}
}

// RedactedKey returns the API key with all but its last characters masked.
func (ic *IntegrationConfig) RedactedKey() string {
	if ic == nil {
		return ""
	}
	return redact(ic.APIKey)
}
