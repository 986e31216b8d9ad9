package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/parser"
	"github.com/balkashynov/taskman/internal/store"
	"github.com/balkashynov/taskman/internal/taskutil"
	"github.com/balkashynov/taskman/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long: `List tasks with optional filters for status, priority, text, due dates and tags.

With the default first-match policy only the first filter that is set decides
(status, then priority, then search, then due range, then tags). Pass
--policy all to require every filter to match.

Examples:
  taskman ls --status todo
  taskman ls --search api --sort priority
  taskman ls --from today --to 7days --policy all
  taskman ls -i`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		filter, err := filterFromFlags(cmd, a)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.store.SetFilter(filter)

		sortName, _ := cmd.Flags().GetString("sort")
		sortKey, err := taskutil.ParseSortKey(sortName)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
			chosen, err := tui.RunListTUI(cmd.Context(), a.store, sortKey)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			if chosen != nil {
				printTaskDetails(a, *chosen)
			}
			return
		}

		tasks := taskutil.SortTasks(a.store.FilteredTasks(), sortKey)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(tasks); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		if len(tasks) == 0 {
			if filter.IsEmpty() {
				fmt.Println("No tasks found. Use 'taskman add \"task description\"' to create your first task.")
			} else {
				fmt.Println("No tasks match the filter.")
			}
			return
		}

		now := a.store.Now()
		fmt.Printf("%-12s %-12s %-8s %-40s %-12s %s\n", "ID", "STATUS", "PRIO", "TITLE", "DUE", "TAGS")
		fmt.Println(strings.Repeat("-", 100))
		for _, task := range tasks {
			due := "-"
			if task.DueDate != nil {
				due = task.DueDate.Format("02/01/2006")
				if taskutil.IsOverdue(task, now) {
					due += "!"
				}
			}
			fmt.Printf("%-12s %-12s %-8s %-40s %-12s %s\n",
				shortID(task.ID),
				task.Status,
				task.Priority,
				truncate(task.Title, 40),
				due,
				strings.Join(task.Tags, ","))
		}
		fmt.Printf("\n%d of %d tasks\n", len(tasks), len(a.store.Tasks()))
	}),
}

var showCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show all details of a task",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		task, err := resolveTask(a.store, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.store.SetSelectedTask(&task)
		printTaskDetails(a, task)

		sessions, err := a.sessions.ForTask(cmd.Context(), task.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(sessions) > 0 {
			fmt.Printf("\nSessions (%d):\n", len(sessions))
			for _, s := range sessions {
				if s.FinishedAt == nil {
					fmt.Printf("  %s  running\n", s.StartedAt.Local().Format("02/01/2006 15:04"))
					continue
				}
				fmt.Printf("  %s  %s\n", s.StartedAt.Local().Format("02/01/2006 15:04"), taskutil.FormatMinutes(s.Minutes()))
			}
		}

		if a.store.Variant() == store.MultiUser {
			comments, err := a.backend.Tasks.Comments(cmd.Context(), task.ID)
			if err != nil {
				fmt.Printf("Error loading comments: %v\n", err)
				return
			}
			if len(comments) > 0 {
				fmt.Printf("\nComments (%d):\n", len(comments))
				for _, c := range comments {
					fmt.Printf("  %s %s: %s\n", c.CreatedAt.Local().Format("02/01 15:04"), a.usernameOf(c.UserID), c.Content)
				}
			}
		}
	}),
}

func printTaskDetails(a *App, task models.Task) {
	now := a.store.Now()
	fmt.Printf("%s\n", task.Title)
	fmt.Printf("  ID:       %s\n", task.ID)
	fmt.Printf("  Status:   %s\n", task.Status)
	fmt.Printf("  Priority: %s\n", task.Priority)
	if len(task.Tags) > 0 {
		fmt.Printf("  Tags:     %s\n", strings.Join(task.Tags, ", "))
	}
	if task.DueDate != nil {
		fmt.Printf("  Due:      %s\n", parser.FormatDueDate(task.DueDate, now))
	}
	if task.EstimatedTime != nil {
		fmt.Printf("  Estimate: %s\n", taskutil.FormatMinutes(*task.EstimatedTime))
	}
	fmt.Printf("  Tracked:  %s\n", taskutil.FormatMinutes(models.Minutes(task.ActualTime)))
	if task.Description != "" {
		fmt.Printf("  Notes:    %s\n", task.Description)
	}
	if task.CreatedBy != "" {
		fmt.Printf("  Creator:  %s\n", a.usernameOf(task.CreatedBy))
	}
	if len(task.AssignedTo) > 0 {
		names := make([]string, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			names = append(names, a.usernameOf(id))
		}
		fmt.Printf("  Assigned: %s\n", strings.Join(names, ", "))
	}
	if task.Visibility != "" {
		fmt.Printf("  Visible:  %s\n", task.Visibility)
	}
	fmt.Printf("  Created:  %s\n", task.CreatedAt.Local().Format("02/01/2006 15:04"))
	fmt.Printf("  Updated:  %s\n", task.UpdatedAt.Local().Format("02/01/2006 15:04"))
}

// filterFromFlags builds the store filter from ls flags
func filterFromFlags(cmd *cobra.Command, a *App) (models.TaskFilter, error) {
	var f models.TaskFilter
	flags := cmd.Flags()
	now := a.store.Now()

	if v, _ := flags.GetString("status"); v != "" {
		s, err := models.ParseStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &s
	}
	if v, _ := flags.GetString("priority"); v != "" {
		p, err := models.ParsePriority(v)
		if err != nil {
			return f, err
		}
		f.Priority = &p
	}
	f.Search, _ = flags.GetString("search")
	f.Tags, _ = flags.GetStringSlice("tags")

	from, _ := flags.GetString("from")
	to, _ := flags.GetString("to")
	if from != "" || to != "" {
		r, err := dateRange(from, to, now)
		if err != nil {
			return f, err
		}
		f.DateRange = r
	}
	return f, nil
}

// dateRange builds an inclusive day range. --to also accepts relative forms
// like "7days". A missing end is open-ended.
func dateRange(from, to string, now time.Time) (*models.DateRange, error) {
	r := &models.DateRange{
		Start: time.Time{},
		End:   time.Date(9999, 12, 31, 23, 59, 59, 0, now.Location()),
	}
	if from != "" {
		start, err := parser.ParseDay(from, now)
		if err != nil {
			return nil, err
		}
		r.Start = start
	}
	if to != "" {
		end, err := parser.ParseDueDateAt(to, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --to: %w", err)
		}
		r.End = parser.EndOfDay(*end)
	}
	if r.End.Before(r.Start) {
		return nil, fmt.Errorf("--to is before --from")
	}
	return r, nil
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func init() {
	listCmd.Flags().StringP("status", "s", "", "Filter by status: todo, in_progress, completed, cancelled")
	listCmd.Flags().StringP("priority", "p", "", "Filter by priority: low, medium, high, urgent")
	listCmd.Flags().String("search", "", "Case-insensitive text in title, description or tags")
	listCmd.Flags().String("from", "", "Due on or after this day (dd/mm/yyyy, yyyy-mm-dd, today)")
	listCmd.Flags().String("to", "", "Due on or before this day (also accepts 7days, 2weeks)")
	listCmd.Flags().StringSliceP("tags", "t", []string{}, "Match any of these tags")
	listCmd.Flags().String("sort", "due", "Sort by: due, priority, created")
	listCmd.Flags().BoolP("interactive", "i", false, "Browse tasks in the interactive list")
	listCmd.Flags().Bool("json", false, "JSON output")
}
