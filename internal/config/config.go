// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Requests     RequestsConfig     `toml:"requests"`
	Acquisition  AcquisitionConfig  `toml:"acquisition"`
	Integrations IntegrationsConfig `toml:"integrations"`
	Events       EventsConfig       `toml:"events"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// RequestsConfig is the request policy. Pointer fields distinguish unset from zero.
type RequestsConfig struct {
	AllowRequests  *bool  `toml:"allow_requests"`
	ApprovalMethod string `toml:"approval_method"`
	DelayInDays    int    `toml:"delay_in_days"`
	MovieLimit     *int   `toml:"movie_limit"`
	SeriesLimit    *int   `toml:"series_limit"`
}

type AcquisitionConfig struct {
	FetchDelay          Duration `toml:"fetch_delay"`
	MaxRecoveryAttempts int      `toml:"max_recovery_attempts"`
	ProgressInterval    Duration `toml:"progress_interval"`
}

type IntegrationsConfig struct {
	Radarr *IntegrationConfig `toml:"radarr"`
	Sonarr *IntegrationConfig `toml:"sonarr"`
}

// IntegrationConfig holds the settings of one PVR. MinimumAvailability applies to
// Radarr and MonitorStrategy to Sonarr.
type IntegrationConfig struct {
	URL                 string  `toml:"url"`
	APIKey              string  `toml:"api_key"`
	QualityProfileID    int     `toml:"quality_profile_id"`
	RootFolderPath      string  `toml:"root_folder_path"`
	MinimumAvailability string  `toml:"minimum_availability"`
	MonitorStrategy     string  `toml:"monitor_strategy"`
	RequestsPerSecond   float64 `toml:"requests_per_second"`
}

type EventsConfig struct {
	Retention     Duration `toml:"retention"`
	PruneInterval Duration `toml:"prune_interval"`
}

// Duration is a time.Duration written as a Go duration string ("30s", "720h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default values applied by Load.
const (
	DefaultHost                = "0.0.0.0"
	DefaultPort                = 8585
	DefaultLogLevel            = "info"
	DefaultDatabasePath        = "./data/reqarr.db"
	DefaultRetention           = 30 * 24 * time.Hour
	DefaultPruneInterval       = time.Hour
	DefaultProgressInterval    = 5 * time.Second
	DefaultMaxRecoveryAttempts = 3
)

// Load reads, substitutes, parses, defaults and validates the configuration file.
// Unresolved variables and validation problems are returned together as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration, applying defaults but
// skipping validation and the unresolved-variable check.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Requests.ApprovalMethod == "" {
		c.Requests.ApprovalMethod = "quota"
	}
	if c.Acquisition.MaxRecoveryAttempts == 0 {
		c.Acquisition.MaxRecoveryAttempts = DefaultMaxRecoveryAttempts
	}
	if c.Acquisition.ProgressInterval.Duration == 0 {
		c.Acquisition.ProgressInterval.Duration = DefaultProgressInterval
	}
	if c.Events.Retention.Duration == 0 {
		c.Events.Retention.Duration = DefaultRetention
	}
	if c.Events.PruneInterval.Duration == 0 {
		c.Events.PruneInterval.Duration = DefaultPruneInterval
	}
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} references with environment values.
// ${VAR:-default} falls back to default when VAR is unset or empty, and ${VAR:?message}
// reports message when it is. Unresolved references stay in the content and are
// returned in order of first appearance. Full-line comments are left untouched.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = substituteLine(line, seen, &missing)
	}
	return strings.Join(lines, "\n"), missing
}

func substituteLine(line string, seen map[string]bool, missing *[]string) string {
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]

		value, ok := os.LookupEnv(name)
		switch {
		case ok && (value != "" || op == ""):
			return value
		case op == ":-":
			return arg
		}

		entry := name
		if op == ":?" {
			entry = name + ": " + arg
		}
		if !seen[entry] {
			seen[entry] = true
			*missing = append(*missing, entry)
		}
		return match
	})
}

// redact hides all but the last four characters of a secret.
func redact(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
