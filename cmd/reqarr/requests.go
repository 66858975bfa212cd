package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/request"
)

var requestsCmd = &cobra.Command{
	Use:     "requests",
	Aliases: []string{"req"},
	Short:   "List and manage requests on the server",
	RunE:    runRequestsList,
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List requests",
	Args:  cobra.NoArgs,
	RunE:  runRequestsList,
}

var requestsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestsShow,
}

var requestsAddCmd = &cobra.Command{
	Use:   "add <movie|series> <tmdb-id>",
	Short: "Record a request without acquiring anything",
	Args:  cobra.ExactArgs(2),
	RunE:  runRequestsAdd,
}

var requestsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending request (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setRequestStatus(args[0], request.StatusApproved)
	},
}

var requestsDeclineCmd = &cobra.Command{
	Use:   "decline <id>",
	Short: "Decline a pending request (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setRequestStatus(args[0], request.StatusDeclined)
	},
}

var requestsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestsDelete,
}

var requestsCountCmd = &cobra.Command{
	Use:   "count <user-id>",
	Short: "Count a user's requests in the quota window",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestsCount,
}

var requestsMediaCmd = &cobra.Command{
	Use:   "media <tmdb-id>",
	Short: "List requests for a title",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestsMedia,
}

func init() {
	rootCmd.AddCommand(requestsCmd)
	requestsCmd.AddCommand(requestsListCmd, requestsShowCmd, requestsAddCmd, requestsApproveCmd,
		requestsDeclineCmd, requestsDeleteCmd, requestsCountCmd, requestsMediaCmd)

	for _, c := range []*cobra.Command{requestsCmd, requestsListCmd} {
		c.Flags().String("status", "", "Filter by status (pending, approved, declined)")
		c.Flags().String("for", "", "Filter by requesting user id")
	}
	requestsAddCmd.Flags().Int("season", -1, "Season (series)")
	requestsAddCmd.Flags().Int("episode", -1, "Episode (series)")
	requestsAddCmd.Flags().String("for", "", "Request on behalf of this user id (admin)")
	requestsAddCmd.Flags().String("status", "", "Initial status (admin only; default pending)")
	requestsCountCmd.Flags().Int("days", 0, "Window in days (default: server policy)")
}

func runRequestsList(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetString("status")
	forUser, _ := cmd.Flags().GetString("for")

	client := NewClient(serverURL, userID)
	resp, err := client.Requests(status, forUser)
	if err != nil {
		return fmt.Errorf("list requests: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printRequests(resp.Items)
	return nil
}

func runRequestsShow(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client := NewClient(serverURL, userID)
	r, err := client.Request(id)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}
	if jsonOutput {
		printJSON(r)
		return nil
	}
	printRequest(r)
	return nil
}

func runRequestsAdd(cmd *cobra.Command, args []string) error {
	kind, err := media.ParseKind(args[0])
	if err != nil {
		return err
	}
	mediaID, err := parseID(args[1])
	if err != nil {
		return err
	}
	forUser, _ := cmd.Flags().GetString("for")
	status, _ := cmd.Flags().GetString("status")

	client := NewClient(serverURL, userID)
	r, err := client.CreateRequest(CreateRequestBody{
		UserID:  forUser,
		MediaID: mediaID,
		Kind:    string(kind),
		Season:  optionalInt(cmd, "season"),
		Episode: optionalInt(cmd, "episode"),
		Status:  status,
	})
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if jsonOutput {
		printJSON(r)
		return nil
	}
	fmt.Printf("Created request #%d (%s).\n", r.ID, r.Status)
	return nil
}

func setRequestStatus(arg string, status request.Status) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	client := NewClient(serverURL, userID)
	r, err := client.UpdateRequest(id, status)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if jsonOutput {
		printJSON(r)
		return nil
	}
	fmt.Printf("Request #%d is now %s.\n", r.ID, r.Status)
	return nil
}

func runRequestsDelete(_ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client := NewClient(serverURL, userID)
	if err := client.DeleteRequest(id); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if !jsonOutput {
		fmt.Printf("Deleted request #%d.\n", id)
	}
	return nil
}

func runRequestsCount(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	client := NewClient(serverURL, userID)
	resp, err := client.CountRequests(args[0], days)
	if err != nil {
		return fmt.Errorf("count requests: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Printf("%s made %d request(s) in the last %d day(s).\n", resp.UserID, resp.Count, resp.Days)
	return nil
}

func runRequestsMedia(_ *cobra.Command, args []string) error {
	mediaID, err := parseID(args[0])
	if err != nil {
		return err
	}
	client := NewClient(serverURL, userID)
	resp, err := client.MediaRequests(mediaID)
	if err != nil {
		return fmt.Errorf("list requests: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printRequests(resp.Items)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
