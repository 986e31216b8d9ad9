package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/parser"
	"github.com/balkashynov/taskman/internal/taskutil"
	"github.com/balkashynov/taskman/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [task description]",
	Short: "Add a new task",
	Long: `Add a new task with optional metadata.

Modes:
  Interactive: taskman add -i (or just 'taskman add' with no arguments)
  Quick: taskman add "Task title" (with optional flags)
  Smart parsing: taskman add "Fix bug #backend +high due:3days ~90m"

Smart parsing syntax:
  #tag1,tag2  - Tags (comma-separated or individual)
  +priority   - Priority (low/medium/high/urgent or 1-4)
  @username   - Assignee (multi variant)
  due:3days   - Due date (dd/mm/yyyy, yyyy-mm-dd, today, tomorrow, X days/hours/weeks)
  ~90m        - Estimate (minutes or a duration like 1h30m)

Flags take precedence over smart syntax.`,
	Args: cobra.ArbitraryArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		interactive, _ := cmd.Flags().GetBool("interactive")
		if len(args) == 0 {
			interactive = true
		}

		parsed := parser.ParseTitle(strings.Join(args, " "))
		if len(parsed.Errors) > 0 {
			fmt.Printf("⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
			fmt.Println("Opening interactive mode for confirmation...")
			interactive = true
		}

		draft, err := draftFromFlags(cmd, parsed, a)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if interactive {
			result, saved, err := tui.RunTaskForm("Create New Task", draftPreview(draft))
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			if !saved {
				fmt.Println("❌ Task creation cancelled.")
				return
			}
			applyForm(&draft, result)
		}

		if strings.TrimSpace(draft.Title) == "" {
			fmt.Println("Error: task title is required")
			return
		}

		task, err := a.store.Add(cmd.Context(), draft)
		if err != nil {
			fmt.Printf("Error creating task: %v\n", err)
			return
		}

		fmt.Printf("✅ Created task %s: %s\n", shortID(task.ID), task.Title)
		fmt.Printf("  Priority: %s\n", task.Priority)
		if len(task.Tags) > 0 {
			fmt.Printf("  Tags: %s\n", strings.Join(task.Tags, ", "))
		}
		if task.DueDate != nil {
			fmt.Printf("  Due: %s\n", parser.FormatDueDate(task.DueDate, a.store.Now()))
		}
		if task.EstimatedTime != nil {
			fmt.Printf("  Estimate: %s\n", taskutil.FormatMinutes(*task.EstimatedTime))
		}
		if len(task.AssignedTo) > 0 {
			names := make([]string, 0, len(task.AssignedTo))
			for _, id := range task.AssignedTo {
				names = append(names, a.usernameOf(id))
			}
			fmt.Printf("  Assigned: %s\n", strings.Join(names, ", "))
		}
	}),
}

// draftFromFlags merges smart syntax and flags into a draft, flags winning
func draftFromFlags(cmd *cobra.Command, parsed parser.ParsedTask, a *App) (models.TaskDraft, error) {
	draft := models.TaskDraft{
		Title:         parsed.Title,
		Status:        models.StatusTodo,
		Priority:      models.PriorityMedium,
		Tags:          parsed.Tags,
		DueDate:       parsed.DueDate,
		EstimatedTime: parsed.Estimate,
		Visibility:    models.VisibilityPublic,
	}
	if parsed.Priority != "" {
		draft.Priority = parsed.Priority
	}

	flags := cmd.Flags()
	if tags, _ := flags.GetStringSlice("tags"); len(tags) > 0 {
		draft.Tags = tags
	}
	if desc, _ := flags.GetString("desc"); desc != "" {
		draft.Description = desc
	}
	if v, _ := flags.GetString("priority"); v != "" {
		p, err := models.ParsePriority(v)
		if err != nil {
			return draft, err
		}
		draft.Priority = p
	}
	if v, _ := flags.GetString("status"); v != "" {
		s, err := models.ParseStatus(v)
		if err != nil {
			return draft, err
		}
		draft.Status = s
	}
	if v, _ := flags.GetString("due"); v != "" {
		due, err := parser.ParseDueDateAt(v, a.store.Now())
		if err != nil {
			return draft, fmt.Errorf("invalid due date: %w", err)
		}
		draft.DueDate = due
	}
	if flags.Changed("estimate") {
		minutes, _ := flags.GetInt("estimate")
		if minutes < 0 {
			return draft, fmt.Errorf("estimate must not be negative")
		}
		draft.EstimatedTime = models.IntPtr(minutes)
	}
	if v, _ := flags.GetString("visibility"); v != "" {
		vis, err := models.ParseVisibility(v)
		if err != nil {
			return draft, err
		}
		draft.Visibility = vis
	}
	if v, _ := flags.GetString("team"); v != "" {
		draft.TeamID = v
	}

	assignees := parsed.Assignees
	if v, _ := flags.GetStringSlice("assign"); len(v) > 0 {
		assignees = v
	}
	if len(assignees) > 0 {
		ids, err := a.assigneeIDs(assignees)
		if err != nil {
			return draft, err
		}
		draft.AssignedTo = ids
	}
	return draft, nil
}

// draftPreview turns a draft into the task shape the form is prefilled from
func draftPreview(d models.TaskDraft) models.Task {
	return models.Task{
		Title:         d.Title,
		Description:   d.Description,
		Status:        d.Status,
		Priority:      d.Priority,
		Tags:          d.Tags,
		DueDate:       d.DueDate,
		EstimatedTime: d.EstimatedTime,
	}
}

func applyForm(d *models.TaskDraft, r tui.FormResult) {
	d.Title = r.Title
	d.Description = r.Description
	d.Priority = r.Priority
	d.Status = r.Status
	d.Tags = r.Tags
	d.DueDate = r.DueDate
	d.EstimatedTime = r.EstimatedTime
}

func init() {
	addCmd.Flags().BoolP("interactive", "i", false, "Interactive mode with TUI")
	addCmd.Flags().StringP("desc", "d", "", "Description")
	addCmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	addCmd.Flags().String("priority", "", "Priority: low, medium, high, urgent or 1-4")
	addCmd.Flags().String("status", "", "Initial status (default todo)")
	addCmd.Flags().String("due", "", "Due date: dd/mm/yyyy, yyyy-mm-dd, today, X days, X hours, X weeks")
	addCmd.Flags().Int("estimate", 0, "Estimated minutes")
	addCmd.Flags().StringSlice("assign", []string{}, "Assignee usernames (multi variant)")
	addCmd.Flags().String("visibility", "", "public, assigned or private (multi variant)")
	addCmd.Flags().String("team", "", "Team id (multi variant)")
}
