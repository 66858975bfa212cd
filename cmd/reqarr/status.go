package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	v1 "github.com/vmunix/reqarr/internal/api/v1"
	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status and request policy",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show your remaining request quota",
	Args:  cobra.NoArgs,
	RunE:  runQuota,
}

var progressCmd = &cobra.Command{
	Use:   "progress <movie|series> <tmdb-id>",
	Short: "Show download progress for a title",
	Args:  cobra.ExactArgs(2),
	RunE:  runProgress,
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(statusCmd, quotaCmd, progressCmd, eventsCmd)
	quotaCmd.Flags().String("kind", "", "Media kind (movie, series); default both")
	progressCmd.Flags().Int("season", -1, "Season (required for series)")
	progressCmd.Flags().Bool("watch", false, "Poll until the download finishes")
	progressCmd.Flags().Duration("interval", 10*time.Second, "Poll interval for --watch")
	eventsCmd.Flags().Duration("since", 24*time.Hour, "How far back to look")
	eventsCmd.Flags().Int("limit", 100, "Maximum events to show")
	eventsCmd.Flags().Int64("request", 0, "Show the history of one request")
	eventsCmd.Flags().Int64("title", 0, "Show the history of one title (tmdb id)")
}

func runStatus(_ *cobra.Command, _ []string) error {
	client := NewClient(serverURL, userID)
	s, err := client.Status()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if jsonOutput {
		printJSON(s)
		return nil
	}
	printStatusHuman(serverURL, s)
	return nil
}

func printStatusHuman(server string, s *v1.StatusResponse) {
	fmt.Printf("Server:     %s (%s, %s)\n", server, s.Status, s.Version)
	p := s.Policy
	fmt.Printf("Requests:   %s approval, window %d days", p.ApprovalMethod, p.WindowDays)
	if !p.AllowRequests {
		fmt.Print(", admins only")
	}
	fmt.Println()
	fmt.Printf("Limits:     movies %d, series %d\n", p.MovieLimit, p.SeriesLimit)

	kinds := make([]string, 0, len(s.Integrations))
	for k := range s.Integrations {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-9s %s\n", k+":", s.Integrations[k])
	}
}

func runQuota(cmd *cobra.Command, _ []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	kinds := []string{string(media.KindMovie), string(media.KindSeries)}
	if kind != "" {
		kinds = []string{kind}
	}

	client := NewClient(serverURL, userID)
	results := make([]*v1.QuotaResponse, 0, len(kinds))
	for _, k := range kinds {
		q, err := client.Quota(k)
		if err != nil {
			return fmt.Errorf("quota: %w", err)
		}
		results = append(results, q)
	}
	if jsonOutput {
		printJSON(results)
		return nil
	}

	rows := make([][]string, 0, len(results))
	for _, q := range results {
		allowed := "yes"
		if !q.Allowed {
			allowed = "no"
		}
		rows = append(rows, []string{
			q.Kind,
			fmt.Sprintf("%d / %d", q.Count, q.Limit),
			fmt.Sprint(q.Remaining),
			fmt.Sprintf("%d days", q.WindowDays),
			allowed,
		})
	}
	fmt.Println(renderTable(
		[]string{"Kind", "Used", "Remaining", "Window", "Auto-approve"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	return nil
}

func runProgress(cmd *cobra.Command, args []string) error {
	kind, err := media.ParseKind(args[0])
	if err != nil {
		return err
	}
	mediaID, err := parseID(args[1])
	if err != nil {
		return err
	}
	season := optionalInt(cmd, "season")
	if kind == media.KindSeries && season == nil {
		return fmt.Errorf("--season is required for series")
	}
	watch, _ := cmd.Flags().GetBool("watch")
	interval, _ := cmd.Flags().GetDuration("interval")

	client := NewClient(serverURL, userID)
	label := fmt.Sprintf("%s %d", kind, mediaID)
	if season != nil {
		label += " " + formatScope(season, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seen := false
	for {
		resp, err := client.Progress(string(kind), mediaID, season)
		if err != nil {
			return fmt.Errorf("progress: %w", err)
		}
		if jsonOutput {
			printJSON(resp)
		} else {
			printProgress(label, progressOf(resp))
		}

		done := resp.Downloading && resp.Progress.Progress >= 100
		if !watch || done || (!resp.Downloading && seen) {
			return nil
		}
		seen = seen || resp.Downloading

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

func progressOf(resp *v1.ProgressResponse) *pvr.Progress {
	if !resp.Downloading {
		return nil
	}
	return resp.Progress
}

func runEvents(cmd *cobra.Command, _ []string) error {
	since, _ := cmd.Flags().GetDuration("since")
	limit, _ := cmd.Flags().GetInt("limit")
	requestID, _ := cmd.Flags().GetInt64("request")
	titleID, _ := cmd.Flags().GetInt64("title")

	client := NewClient(serverURL, userID)
	var (
		resp *ListEventsResponse
		err  error
	)
	switch {
	case requestID > 0:
		resp, err = client.EntityEvents("request", requestID)
	case titleID > 0:
		resp, err = client.EntityEvents("title", titleID)
	default:
		resp, err = client.Events(time.Now().Add(-since), limit)
	}
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	if len(resp.Items) == 0 {
		fmt.Println("No events.")
		return nil
	}

	rows := make([][]string, 0, len(resp.Items))
	for _, e := range resp.Items {
		rows = append(rows, []string{
			humanize.Time(e.OccurredAt),
			e.EventType,
			fmt.Sprintf("%s/%d", e.EntityType, e.EntityID),
		})
	}
	fmt.Println(renderTable([]string{"When", "Event", "Entity"}, rows, nil))
	return nil
}
