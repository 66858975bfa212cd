package config

import (
	"strings"
	"testing"
	"time"
)

func intPtr(i int) *int { return &i }

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8585, LogLevel: "info"},
		Requests: RequestsConfig{ApprovalMethod: "quota"},
		Integrations: IntegrationsConfig{
			Radarr: &IntegrationConfig{URL: "http://localhost:7878", APIKey: "k", MinimumAvailability: "released"},
			Sonarr: &IntegrationConfig{URL: "https://sonarr.example.com", APIKey: "k", MonitorStrategy: "none"},
		},
	}
}

func assertSingleError(t *testing.T, errs []string, field string) {
	t.Helper()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.HasPrefix(errs[0], field+":") {
		t.Errorf("expected error for %s, got %q", field, errs[0])
	}
}

func TestValidate_MinimalValid(t *testing.T) {
	if errs := validConfig().Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_EmptyIsValid(t *testing.T) {
	cfg := &Config{}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	assertSingleError(t, cfg.Validate(), "server.port")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Server.LogLevel = "verbose"
	assertSingleError(t, cfg.Validate(), "server.log_level")
}

func TestValidate_ApprovalMethod(t *testing.T) {
	cfg := validConfig()
	cfg.Requests.ApprovalMethod = "auto"
	assertSingleError(t, cfg.Validate(), "requests.approval_method")
}

func TestValidate_NegativeLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Requests.MovieLimit = intPtr(-1)
	cfg.Requests.SeriesLimit = intPtr(-2)
	cfg.Requests.DelayInDays = -7

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
}

func TestValidate_ZeroLimitAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Requests.MovieLimit = intPtr(0)
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_IntegrationURL(t *testing.T) {
	tests := []string{"localhost:7878", "ftp://host", "http://"}
	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			cfg := validConfig()
			cfg.Integrations.Radarr.URL = u
			assertSingleError(t, cfg.Validate(), "integrations.radarr.url")
		})
	}
}

func TestValidate_IncompleteIntegrationIsNotAnError(t *testing.T) {
	cfg := validConfig()
	cfg.Integrations.Sonarr = &IntegrationConfig{}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_MonitorStrategy(t *testing.T) {
	cfg := validConfig()
	cfg.Integrations.Sonarr.MonitorStrategy = "everything"
	assertSingleError(t, cfg.Validate(), "integrations.sonarr.monitor_strategy")
}

func TestValidate_MinimumAvailability(t *testing.T) {
	cfg := validConfig()
	cfg.Integrations.Radarr.MinimumAvailability = "streaming"
	assertSingleError(t, cfg.Validate(), "integrations.radarr.minimum_availability")
}

func TestValidate_NegativeRate(t *testing.T) {
	cfg := validConfig()
	cfg.Integrations.Sonarr.RequestsPerSecond = -1
	assertSingleError(t, cfg.Validate(), "integrations.sonarr.requests_per_second")
}

func TestValidate_NegativeDurations(t *testing.T) {
	cfg := validConfig()
	cfg.Acquisition.FetchDelay = Duration{-time.Second}
	cfg.Events.Retention = Duration{-time.Hour}
	if errs := cfg.Validate(); len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
}
