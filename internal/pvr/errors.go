package pvr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIntegrationConfig means required integration settings are missing or rejected.
	// Retrying will not help until the configuration is fixed.
	ErrIntegrationConfig = errors.New("integration not configured")
	// ErrIntegrationUnavailable is a transient network or service failure.
	ErrIntegrationUnavailable = errors.New("integration unavailable")
	// ErrInvalidAPIKey is returned when the PVR rejects the configured API key.
	ErrInvalidAPIKey = errors.New("api key rejected")
	// ErrItemNotFound is returned when the title is not in the PVR catalog.
	ErrItemNotFound = errors.New("item not found")
	// ErrNoSeasons is returned when a registered series has no seasons.
	ErrNoSeasons = errors.New("series has no seasons")
)

// ConfigError lists the settings an integration is missing.
type ConfigError struct {
	Integration string
	Missing     []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s settings are incomplete, missing: %s", e.Integration, strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Unwrap() error {
	return ErrIntegrationConfig
}

// IsRetryable reports whether err is worth retrying without user action.
func IsRetryable(err error) bool {
	return err != nil && !errors.Is(err, ErrIntegrationConfig) && errors.Is(err, ErrIntegrationUnavailable)
}
