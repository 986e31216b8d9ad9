package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/balkashynov/taskman/internal/mockapi"
	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/store"
	"github.com/balkashynov/taskman/internal/tui"
)

var errSingleUser = errors.New("this command needs the multi-user variant (--variant multi)")

func requireMulti(a *App) error {
	if a.store.Variant() != store.MultiUser {
		return errSingleUser
	}
	return nil
}

// readPassword takes --password, or asks for one with a masked prompt
func readPassword() (string, error) {
	if p := viper.GetString("password"); p != "" {
		return p, nil
	}
	password, ok, err := tui.RunPasswordPrompt("Password")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if !ok {
		return "", errors.New("password entry cancelled")
	}
	return password, nil
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in to the team backend",
	Long: `Sign in and keep the session for later commands.

Demo accounts: admin, alice, bob (password "password").`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		if err := requireMulti(a); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		password, err := readPassword()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		creds := models.Credentials{Username: args[0], Password: password}
		if err := a.auth.Login(cmd.Context(), creds); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		user := a.auth.CurrentUser()
		fmt.Printf("👋 Signed in as %s (@%s), %d tasks visible\n", user.DisplayName, user.Username, len(a.store.Tasks()))
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account on the team backend and sign in",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		if err := requireMulti(a); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			fmt.Println("Error: --email is required")
			return
		}
		password, err := readPassword()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		displayName, _ := cmd.Flags().GetString("name")

		reg := models.Registration{
			Username:    args[0],
			Email:       email,
			Password:    password,
			DisplayName: displayName,
		}
		if err := a.auth.Register(cmd.Context(), reg); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		user := a.auth.CurrentUser()
		fmt.Printf("✅ Registered and signed in as @%s (%s)\n", user.Username, user.ID)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		if err := requireMulti(a); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.auth.Logout(cmd.Context())
		fmt.Println("Signed out.")
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		if err := requireMulti(a); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		user, err := a.requireUser()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("%s (@%s)\n", user.DisplayName, user.Username)
		fmt.Printf("  ID:    %s\n", user.ID)
		fmt.Printf("  Email: %s\n", user.Email)
		fmt.Printf("  Role:  %s\n", user.Role)
	}),
}

var commentCmd = &cobra.Command{
	Use:   "comment <task-id> <text...>",
	Short: "Comment on a task",
	Args:  cobra.MinimumNArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		if err := requireMulti(a); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		user, err := a.requireUser()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		task, err := resolveTask(a.store, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		content := strings.TrimSpace(strings.Join(args[1:], " "))
		if content == "" {
			fmt.Println("Error: comment must not be empty")
			return
		}

		if _, err := a.backend.Tasks.AddComment(cmd.Context(), task.ID, user.ID, content); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("💬 Commented on task %s: %s\n", shortID(task.ID), task.Title)
	}),
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List your teams",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		if err := requireMulti(a); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		user, err := a.requireUser()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		teams, err := a.backend.Teams.UserTeams(cmd.Context(), user.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(teams) == 0 {
			fmt.Println("You are not in any team. Use 'taskman teams create <name>' to start one.")
			return
		}
		for _, t := range teams {
			fmt.Printf("%s  %s (%d members)\n", t.ID, t.Name, len(t.Members))
			if t.Description != "" {
				fmt.Printf("  %s\n", t.Description)
			}
			for _, m := range t.Members {
				fmt.Printf("  - @%s (%s)\n", m.User.Username, m.Role)
			}
		}
	}),
}

var teamsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a team you own",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		if err := requireMulti(a); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		desc, _ := cmd.Flags().GetString("desc")

		team, err := a.backend.Teams.CreateTeam(cmd.Context(), name, desc)
		if errors.Is(err, mockapi.ErrUnauthenticated) {
			fmt.Println("Error: not logged in, run 'taskman login' or pass --user")
			return
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("👥 Created team %s (%s)\n", team.Name, team.ID)
	}),
}

func init() {
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("name", "", "Display name (defaults to the username)")
	teamsCreateCmd.Flags().String("desc", "", "Team description")
	teamsCmd.AddCommand(teamsCreateCmd)
}
