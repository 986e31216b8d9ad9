// Package taskutil holds pure helpers over tasks: overdue checks, ordering and
// a few display lookups.
package taskutil

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/taskman/internal/models"
)

// SortKey selects the ordering used by SortTasks
type SortKey string

const (
	SortByDueDate   SortKey = "dueDate"
	SortByPriority  SortKey = "priority"
	SortByCreatedAt SortKey = "createdAt"
)

// ParseSortKey converts user input into a SortKey
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "due", "duedate", "due_date":
		return SortByDueDate, nil
	case "priority", "prio":
		return SortByPriority, nil
	case "created", "createdat", "created_at":
		return SortByCreatedAt, nil
	}
	return "", fmt.Errorf("invalid sort key %q. Use: due, priority, created", s)
}

// IsOverdue reports whether the task is past its due date.
// Tasks without a due date and completed tasks are never overdue.
func IsOverdue(task models.Task, now time.Time) bool {
	if task.DueDate == nil || task.Status == models.StatusCompleted {
		return false
	}
	return task.DueDate.Before(now)
}

// SortTasks returns a sorted copy of tasks, leaving the input untouched.
//   - dueDate: undated tasks last, dated tasks ascending
//   - priority: urgent, high, medium, low
//   - createdAt: newest first
//
// Ties keep their input order. An unknown key returns the copy unsorted.
func SortTasks(tasks []models.Task, key SortKey) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	var less func(a, b models.Task) bool
	switch key {
	case SortByDueDate:
		less = func(a, b models.Task) bool {
			if a.DueDate == nil || b.DueDate == nil {
				return a.DueDate != nil && b.DueDate == nil
			}
			return a.DueDate.Before(*b.DueDate)
		}
	case SortByPriority:
		less = func(a, b models.Task) bool {
			return a.Priority.Rank() < b.Priority.Rank()
		}
	case SortByCreatedAt:
		less = func(a, b models.Task) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// PriorityColor returns the hex display color of a priority
func PriorityColor(p models.Priority) string {
	switch p {
	case models.PriorityLow:
		return "#4CAF50"
	case models.PriorityMedium:
		return "#FF9800"
	case models.PriorityHigh:
		return "#F44336"
	case models.PriorityUrgent:
		return "#9C27B0"
	}
	return "#9E9E9E"
}

// StatusColor returns the hex display color of a status
func StatusColor(s models.Status) string {
	switch s {
	case models.StatusTodo:
		return "#9E9E9E"
	case models.StatusInProgress:
		return "#2196F3"
	case models.StatusCompleted:
		return "#4CAF50"
	case models.StatusCancelled:
		return "#F44336"
	}
	return "#9E9E9E"
}

// FormatMinutes renders a minute count as "45m", "2h" or "1h 30m"
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}
