package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/reqarr/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	api, err := a.api()
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting reqarr",
		"version", version,
		"addr", a.cfg.Address(),
		"database", a.cfg.Database.Path,
		"radarr", a.cfg.Integrations.Radarr != nil,
		"sonarr", a.cfg.Integrations.Sonarr != nil,
		"approval_method", a.cfg.Requests.ApprovalMethod)

	runner := server.NewRunner(api.Handler(), a.eventLog, server.Config{
		Addr:          a.cfg.Address(),
		PruneInterval: a.cfg.Events.PruneInterval.Duration,
		Retention:     a.cfg.Events.Retention.Duration,
	}, a.logger)
	return runner.Run(ctx)
}
