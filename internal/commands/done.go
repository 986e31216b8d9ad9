package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskman/internal/models"
)

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		task, err := setStatus(cmd, a, args[0], models.StatusCompleted)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Marked task %s as done: %s\n", shortID(task.ID), task.Title)
	}),
}

var undoneCmd = &cobra.Command{
	Use:   "undone <task-id>",
	Short: "Mark a completed task back to todo status",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		task, err := setStatus(cmd, a, args[0], models.StatusTodo)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("↩️  Marked task %s back to todo: %s\n", shortID(task.ID), task.Title)
	}),
}

var rmCmd = &cobra.Command{
	Use:     "rm <task-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		task, err := resolveTask(a.store, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := a.store.Delete(cmd.Context(), task.ID); err != nil {
			fmt.Printf("Error deleting task: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Deleted task %s: %s\n", shortID(task.ID), task.Title)
	}),
}

func setStatus(cmd *cobra.Command, a *App, ref string, status models.Status) (models.Task, error) {
	task, err := resolveTask(a.store, ref)
	if err != nil {
		return models.Task{}, err
	}
	if task.Status == status {
		return task, fmt.Errorf("task %s is already %s", shortID(task.ID), status)
	}
	task.Status = status
	return a.store.Update(cmd.Context(), task)
}
