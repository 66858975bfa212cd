package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/reqarr/internal/config"
	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/user"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 8585, LogLevel: "error"},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "data", "reqarr.db")},
		Integrations: config.IntegrationsConfig{
			Radarr: &config.IntegrationConfig{
				URL:              "http://localhost:7878",
				APIKey:           "radarr-key",
				QualityProfileID: 1,
				RootFolderPath:   "/movies",
			},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	a, err := openApp(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestOpenApp_WiresServices(t *testing.T) {
	a := openTestApp(t, testConfig(t))

	assert.NotNil(t, a.users)
	assert.NotNil(t, a.requests)
	assert.NotNil(t, a.quota)
	assert.NotNil(t, a.workflow)
	assert.Equal(t, 7, a.quota.Policy().WindowDays)

	integ, err := a.registrar.Integration(media.KindMovie)
	require.NoError(t, err)
	assert.NotNil(t, integ)

	_, err = a.registrar.Integration(media.KindSeries)
	var cfgErr *pvr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	srv, err := a.api()
	require.NoError(t, err)
	assert.NotNil(t, srv.Handler())
}

func TestOpenApp_RejectsInvalidPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Requests.ApprovalMethod = "sometimes"
	_, err := openApp(cfg, testLogger())
	assert.Error(t, err)
}

func TestBindings(t *testing.T) {
	cfg := testConfig(t)
	b := bindings(cfg, nil)
	require.Len(t, b, 1)
	assert.Equal(t, "radarr", b[media.KindMovie].Name)
	assert.Equal(t, "http://localhost:7878", b[media.KindMovie].Settings.BaseURL)

	cfg.Integrations.Sonarr = &config.IntegrationConfig{URL: "http://localhost:8989"}
	b = bindings(cfg, nil)
	require.Len(t, b, 2)
	assert.Equal(t, "sonarr", b[media.KindSeries].Name)
}

func TestResolveActor(t *testing.T) {
	a := openTestApp(t, testConfig(t))
	ctx := context.Background()
	alice := &user.User{ID: "u-alice", Name: "alice"}
	require.NoError(t, a.users.Add(ctx, alice))

	byID, err := resolveActor(ctx, a.users, "u-alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Name)

	byName, err := resolveActor(ctx, a.users, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", byName.ID)

	_, err = resolveActor(ctx, a.users, "mallory")
	assert.ErrorContains(t, err, `unknown user "mallory"`)

	_, err = resolveActor(ctx, a.users, "")
	assert.ErrorContains(t, err, "no acting user")
}
