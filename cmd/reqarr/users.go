package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/reqarr/internal/user"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users in the local database",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersAdd,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd, usersListCmd)
	usersAddCmd.Flags().Bool("admin", false, "Grant administrator rights")
	usersAddCmd.Flags().String("id", "", "User id (default: generated)")
}

func runUsersAdd(cmd *cobra.Command, args []string) error {
	admin, _ := cmd.Flags().GetBool("admin")
	id, _ := cmd.Flags().GetString("id")

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	u := &user.User{ID: id, Name: args[0], IsAdmin: admin}
	if err := a.users.Add(context.Background(), u); err != nil {
		return err
	}
	if jsonOutput {
		printJSON(u)
		return nil
	}
	fmt.Printf("Added %s (%s)\n", u.Name, u.ID)
	return nil
}

func runUsersList(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	users, err := a.users.List(context.Background())
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(users)
		return nil
	}
	if len(users) == 0 {
		fmt.Println("No users.")
		return nil
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		rows = append(rows, []string{u.ID, u.Name, role, humanize.Time(u.CreatedAt)})
	}
	fmt.Println(renderTable([]string{"ID", "Name", "Role", "Added"}, rows, nil))
	return nil
}
