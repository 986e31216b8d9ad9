package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/parser"
	"github.com/balkashynov/taskman/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit an existing task",
	Long: `Edit an existing task.

With no field flags this opens the same form as 'taskman add -i' with every
field pre-populated. With flags only those fields change.

Usage:
  taskman edit 1a2b3c       - Edit in the interactive form
  taskman edit 1a2b3c --priority urgent --due tomorrow`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		task, err := resolveTask(a.store, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.store.SetSelectedTask(&task)

		if !anyChanged(cmd, editFields...) {
			heading := fmt.Sprintf("Edit Task %s", shortID(task.ID))
			result, saved, err := tui.RunTaskForm(heading, task)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			if !saved {
				fmt.Println("❌ Edit cancelled.")
				return
			}
			applyFormToTask(&task, result)
		} else if err := applyEditFlags(cmd, a, &task); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if strings.TrimSpace(task.Title) == "" {
			fmt.Println("Error: task title is required")
			return
		}

		updated, err := a.store.Update(cmd.Context(), task)
		if err != nil {
			fmt.Printf("Error updating task: %v\n", err)
			return
		}
		fmt.Printf("✏️  Updated task %s: %s\n", shortID(updated.ID), updated.Title)
	}),
}

var editFields = []string{"title", "desc", "priority", "status", "tags", "due", "estimate", "assign", "visibility"}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func applyFormToTask(t *models.Task, r tui.FormResult) {
	t.Title = r.Title
	t.Description = r.Description
	t.Priority = r.Priority
	t.Status = r.Status
	t.Tags = r.Tags
	t.DueDate = r.DueDate
	t.EstimatedTime = r.EstimatedTime
}

// applyEditFlags changes only the fields whose flags were given
func applyEditFlags(cmd *cobra.Command, a *App, t *models.Task) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		t.Title, _ = flags.GetString("title")
	}
	if flags.Changed("desc") {
		t.Description, _ = flags.GetString("desc")
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := models.ParsePriority(v)
		if err != nil {
			return err
		}
		t.Priority = p
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		s, err := models.ParseStatus(v)
		if err != nil {
			return err
		}
		t.Status = s
	}
	if flags.Changed("tags") {
		t.Tags, _ = flags.GetStringSlice("tags")
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		if v == "" || v == "none" {
			t.DueDate = nil
		} else {
			due, err := parser.ParseDueDateAt(v, a.store.Now())
			if err != nil {
				return fmt.Errorf("invalid due date: %w", err)
			}
			t.DueDate = due
		}
	}
	if flags.Changed("estimate") {
		minutes, _ := flags.GetInt("estimate")
		if minutes < 0 {
			return fmt.Errorf("estimate must not be negative")
		}
		t.EstimatedTime = models.IntPtr(minutes)
	}
	if flags.Changed("assign") {
		names, _ := flags.GetStringSlice("assign")
		ids, err := a.assigneeIDs(names)
		if err != nil {
			return err
		}
		t.AssignedTo = ids
	}
	if flags.Changed("visibility") {
		v, _ := flags.GetString("visibility")
		vis, err := models.ParseVisibility(v)
		if err != nil {
			return err
		}
		t.Visibility = vis
	}
	return nil
}

func init() {
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("desc", "d", "", "New description")
	editCmd.Flags().String("priority", "", "Priority: low, medium, high, urgent or 1-4")
	editCmd.Flags().String("status", "", "Status: todo, in_progress, completed, cancelled")
	editCmd.Flags().StringSliceP("tags", "t", []string{}, "Replace tags")
	editCmd.Flags().String("due", "", "Due date, or 'none' to clear")
	editCmd.Flags().Int("estimate", 0, "Estimated minutes")
	editCmd.Flags().StringSlice("assign", []string{}, "Assignee usernames (multi variant)")
	editCmd.Flags().String("visibility", "", "public, assigned or private (multi variant)")
}
