package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	userID     string
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "reqarr",
	Short: "Media request and acquisition orchestrator",
	Long: `reqarr - media request and acquisition orchestrator

Users request movies and series; requests within the user's quota are
downloaded through Radarr or Sonarr right away, the rest wait for an
administrator.

Run 'reqarr serve' to start the server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8585", "Server URL")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", os.Getenv("REQARR_USER"), "Acting user id (default $REQARR_USER)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file for local commands (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("reqarr {{.Version}}\n")
}
