package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taskman",
	Short: "A personal and team task manager with time tracking",
	Long: `taskman keeps a list of tasks with status, priority, tags and due dates,
filters and summarizes them, and tracks the time you spend on each one.

Run it single-user against local storage, or multi-user against the team
backend with --variant multi.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskman %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command. Ctrl+C cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", "", "Directory for the database, config.yaml and logs (default ~/.taskman)")
	flags.String("storage", "", "Key/value backend: sqlite, memory or redis")
	flags.String("redis-addr", "", "Redis address when --storage redis")
	flags.String("variant", "", "single (local tasks) or multi (team backend)")
	flags.String("policy", "", "Filter policy: first-match or all")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("user", "", "Sign in as this user for one command (multi variant)")
	flags.String("password", "", "Password for --user")

	bindings := map[string]string{
		"data_dir":      "data-dir",
		"storage":       "storage",
		"redis_addr":    "redis-addr",
		"variant":       "variant",
		"filter_policy": "policy",
		"log_level":     "log-level",
		"user":          "user",
		"password":      "password",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err) // flag names above are constants
		}
	}

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
