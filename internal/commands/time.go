package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskman/internal/taskutil"
	"github.com/balkashynov/taskman/internal/tracker"
	"github.com/balkashynov/taskman/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Start tracking time on a task",
	Long: `Start tracking time on a task. Opens interactive timer by default, use --no-ui for simple start.

The session keeps running after the timer view closes until 'taskman stop'.

Examples:
  taskman start 1a2b3c        # Start timer with interactive UI
  taskman start 1a2b3c --no-ui # Start timer without UI`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		task, err := resolveTask(a.store, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		session, err := a.tracker.Start(cmd.Context(), task.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			fmt.Printf("⏱️  Started tracking time for task %s: %s\n", shortID(task.ID), task.Title)
			fmt.Printf("Started at: %s\n", session.StartedAt.Local().Format("15:04:05"))
			return
		}

		outcome, err := tui.RunTimerTUI(*session, task)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if outcome == tui.TimerStopped {
			stopAndReport(cmd, a, "Stopped")
			return
		}
		fmt.Printf("\n💡 Timer is still running in the background for task %s: %s\n", shortID(task.ID), task.Title)
		fmt.Println("   Use 'taskman status' to check current timer or 'taskman stop' to stop it.")
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking time",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		stopAndReport(cmd, a, "Stopped")
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause tracking time, 'taskman start' resumes with a new session",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		result, err := a.tracker.Pause(cmd.Context())
		printResult(result, err, "Paused")
	}),
}

func stopAndReport(cmd *cobra.Command, a *App, verb string) {
	result, err := a.tracker.Stop(cmd.Context())
	printResult(result, err, verb)
}

func printResult(result *tracker.Result, err error, verb string) {
	if err != nil && result == nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	s := result.Session
	duration := time.Duration(s.DurationSeconds) * time.Second
	fmt.Printf("⏹️  %s tracking time for task %s: %s\n", verb, shortID(s.TaskID), s.TaskTitle)
	fmt.Printf("📊 Session duration: %s (%d whole minutes added)\n", tui.FormatDuration(duration), result.Minutes)

	switch {
	case err != nil:
		fmt.Printf("Error: failed to save tracked time: %v\n", err)
	case result.Task == nil:
		fmt.Println("The task no longer exists, the time was not added anywhere.")
	default:
		fmt.Printf("Total tracked on this task: %s\n", taskutil.FormatMinutes(*result.Task.ActualTime))
	}
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current time tracking status",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		session, err := a.tracker.Active(cmd.Context())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if session == nil {
			fmt.Println("No active time tracking session")
			return
		}

		elapsed := tracker.Elapsed(session, time.Now())
		fmt.Printf("⏱️  Currently tracking: task %s: %s\n", shortID(session.TaskID), session.TaskTitle)
		fmt.Printf("Started at: %s\n", session.StartedAt.Local().Format("15:04:05"))
		fmt.Printf("Elapsed time: %s\n", tui.FormatDuration(elapsed))
	}),
}

var logCmd = &cobra.Command{
	Use:   "log <task-id> <minutes>",
	Short: "Add time to a task manually",
	Long: `Add time you worked without a running timer.

Minutes can be a whole number or a duration like 1h30m.

Examples:
  taskman log 1a2b3c 45
  taskman log 1a2b3c 1h30m`,
	Args: cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		minutes, err := parseMinutesArg(args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		task, err := resolveTask(a.store, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		updated, err := a.tracker.AddManual(cmd.Context(), task.ID, minutes)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("➕ Added %s to task %s: %s\n", taskutil.FormatMinutes(minutes), shortID(updated.ID), updated.Title)
		fmt.Printf("Total tracked: %s\n", taskutil.FormatMinutes(*updated.ActualTime))
	}),
}

// parseMinutesArg accepts "45" or a Go duration like "1h30m"
func parseMinutesArg(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, tracker.ErrInvalidMinutes
		}
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < time.Minute {
		return 0, fmt.Errorf("%w: got %q", tracker.ErrInvalidMinutes, s)
	}
	return int(d / time.Minute), nil
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")
}
