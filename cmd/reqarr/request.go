package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/user"
	"github.com/vmunix/reqarr/internal/workflow"
)

var requestCmd = &cobra.Command{
	Use:   "request <movie|series> <tmdb-id>",
	Short: "Request a title and acquire it if the quota allows",
	Long: `Runs the approval workflow locally against the configured database and PVRs.

Within quota the title is handed to Radarr or Sonarr right away and an approved
request is recorded; otherwise a pending request is left for an administrator.
Questions are asked on the terminal; without one the flags answer them.`,
	Args: cobra.ExactArgs(2),
	RunE: runRequest,
}

func init() {
	rootCmd.AddCommand(requestCmd)
	requestCmd.Flags().Int("season", -1, "Season to acquire (series)")
	requestCmd.Flags().Int("episode", -1, "Single episode to acquire (series)")
	requestCmd.Flags().String("mode", "", "Series mode when no season release exists: monitor or episode")
	requestCmd.Flags().Bool("retry", false, "Retry a failed acquisition without asking")
	requestCmd.Flags().Bool("watch", false, "Follow download progress after a successful grab")
}

func runRequest(cmd *cobra.Command, args []string) error {
	kind, err := media.ParseKind(args[0])
	if err != nil {
		return err
	}
	mediaID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || mediaID <= 0 {
		return fmt.Errorf("invalid tmdb id %q", args[1])
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	actor, err := resolveActor(ctx, a.users, userID)
	if err != nil {
		return err
	}

	var prompter workflow.Prompter
	if stdinIsTerminal() && !jsonOutput {
		prompter = newTerminalPrompter(os.Stdin, os.Stdout)
	} else {
		prompter = answerSheetFromFlags(cmd)
	}

	var notifier workflow.Notifier = workflow.NotifierFunc(func(n workflow.Notice) {
		printNotice(os.Stdout, n)
	})
	if jsonOutput {
		notifier = workflow.Discard
	}

	res, err := a.workflow.Run(ctx, *actor, workflow.Intent{Kind: kind, MediaID: mediaID}, prompter, notifier)
	if errors.Is(err, workflow.ErrNoAnswer) {
		return fmt.Errorf("%w (answer with --season, --episode or --mode)", err)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(res)
		return nil
	}
	if res.Request != nil {
		fmt.Printf("Request #%d is %s.\n", res.Request.ID, res.Request.Status)
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch || res.Release == nil || res.Target.Mode != media.ModeWholeTitle {
		return nil
	}
	return a.acquirer.Watch(ctx, res.Target.Kind, res.Target.ExternalID, res.Target.Season,
		a.cfg.Acquisition.ProgressInterval.Duration, func(p *pvr.Progress) {
			printProgress(res.Target.Title, p)
		})
}

// answerSheetFromFlags answers the workflow's questions from the command's flags.
func answerSheetFromFlags(cmd *cobra.Command) workflow.AnswerSheet {
	season := optionalInt(cmd, "season")
	episode := optionalInt(cmd, "episode")
	mode, _ := cmd.Flags().GetString("mode")
	retry, _ := cmd.Flags().GetBool("retry")
	return workflow.NewAnswerSheet(season, episode, mode, retry)
}

// optionalInt returns a flag's value, or nil when the flag was not set.
func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// resolveActor finds the acting user by id, then by name.
func resolveActor(ctx context.Context, users *user.Store, ref string) (*user.User, error) {
	if ref == "" {
		return nil, errors.New("no acting user: pass --user or set REQARR_USER")
	}
	u, err := users.Get(ctx, ref)
	if errors.Is(err, user.ErrNotFound) {
		u, err = users.GetByName(ctx, ref)
	}
	if errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("unknown user %q (add one with 'reqarr users add')", ref)
	}
	return u, err
}

func printProgress(title string, p *pvr.Progress) {
	if p == nil {
		fmt.Printf("%s: not downloading\n", title)
		return
	}
	fmt.Printf("%s: %.1f%% (%s left)\n", title, p.Progress, p.TimeLeft)
}
