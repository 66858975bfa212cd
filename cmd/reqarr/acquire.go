package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	v1 "github.com/vmunix/reqarr/internal/api/v1"
	"github.com/vmunix/reqarr/internal/media"
)

var acquireCmd = &cobra.Command{
	Use:   "acquire <movie|series> <tmdb-id>",
	Short: "Run the approval workflow on the server",
	Long: `Asks the server to run the approval workflow for a title. The server cannot ask
questions, so series runs need --season (and --episode or --mode when the season
has no release).`,
	Args: cobra.ExactArgs(2),
	RunE: runAcquire,
}

func init() {
	rootCmd.AddCommand(acquireCmd)
	acquireCmd.Flags().Int("season", -1, "Season to acquire (series)")
	acquireCmd.Flags().Int("episode", -1, "Single episode to acquire (series)")
	acquireCmd.Flags().String("mode", "", "Series mode when no season release exists: monitor or episode")
	acquireCmd.Flags().Bool("retry", false, "Retry a failed acquisition")
}

func runAcquire(cmd *cobra.Command, args []string) error {
	kind, err := media.ParseKind(args[0])
	if err != nil {
		return err
	}
	mediaID, err := parseID(args[1])
	if err != nil {
		return err
	}
	mode, _ := cmd.Flags().GetString("mode")
	retry, _ := cmd.Flags().GetBool("retry")

	client := NewClient(serverURL, userID)
	resp, err := client.Acquire(v1.AcquireBody{
		Kind:    string(kind),
		MediaID: mediaID,
		Season:  optionalInt(cmd, "season"),
		Episode: optionalInt(cmd, "episode"),
		Mode:    mode,
		Retry:   retry,
	})
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printAcquireHuman(resp)
	return nil
}

func printAcquireHuman(resp *v1.AcquireResponse) {
	for _, n := range resp.Notices {
		printNotice(os.Stdout, n)
	}
	if resp.Release != "" {
		fmt.Printf("Release:  %s\n", resp.Release)
	}
	if resp.Request != nil {
		fmt.Printf("Request #%d is %s.\n", resp.Request.ID, resp.Request.Status)
	}
	if resp.Reason != "" {
		fmt.Printf("Abandoned after %d attempt(s): %s\n", resp.Attempts, resp.Reason)
	}
}
