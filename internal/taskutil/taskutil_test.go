package taskutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskman/internal/models"
)

func at(day int) *time.Time {
	t := time.Date(2024, 5, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task models.Task
		want bool
	}{
		{"no due date", models.Task{Status: models.StatusTodo}, false},
		{"past due, todo", models.Task{Status: models.StatusTodo, DueDate: at(9)}, true},
		{"past due, in progress", models.Task{Status: models.StatusInProgress, DueDate: at(1)}, true},
		{"past due, cancelled", models.Task{Status: models.StatusCancelled, DueDate: at(1)}, true},
		{"past due, completed", models.Task{Status: models.StatusCompleted, DueDate: at(1)}, false},
		{"future due", models.Task{Status: models.StatusTodo, DueDate: at(11)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(tt.task, now))
		})
	}
}

func TestIsOverdue_CompletedNeverOverdue(t *testing.T) {
	now := time.Now()
	for day := 1; day <= 28; day++ {
		task := models.Task{Status: models.StatusCompleted, DueDate: at(day)}
		assert.False(t, IsOverdue(task, now))
	}
}

func TestSortTasks_ByPriority(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Priority: models.PriorityLow},
		{ID: "b", Priority: models.PriorityUrgent},
		{ID: "c", Priority: models.PriorityMedium},
		{ID: "d", Priority: models.PriorityHigh},
		{ID: "e", Priority: models.PriorityUrgent},
		{ID: "f", Priority: models.PriorityLow},
	}

	sorted := SortTasks(tasks, SortByPriority)
	require.Len(t, sorted, len(tasks))

	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Priority.Rank(), sorted[i].Priority.Rank())
	}
	assert.Equal(t, models.PriorityUrgent, sorted[0].Priority)
	assert.Equal(t, models.PriorityLow, sorted[len(sorted)-1].Priority)

	// Input untouched
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
}

func TestSortTasks_ByDueDate(t *testing.T) {
	tasks := []models.Task{
		{ID: "none-1"},
		{ID: "d5", DueDate: at(5)},
		{ID: "none-2"},
		{ID: "d2", DueDate: at(2)},
		{ID: "d9", DueDate: at(9)},
	}

	sorted := SortTasks(tasks, SortByDueDate)
	ids := make([]string, len(sorted))
	for i, task := range sorted {
		ids[i] = task.ID
	}

	assert.Equal(t, []string{"d2", "d5", "d9"}, ids[:3])
	assert.ElementsMatch(t, []string{"none-1", "none-2"}, ids[3:])
}

func TestSortTasks_ByCreatedAt(t *testing.T) {
	tasks := []models.Task{
		{ID: "old", CreatedAt: *at(1)},
		{ID: "new", CreatedAt: *at(20)},
		{ID: "mid", CreatedAt: *at(10)},
	}

	sorted := SortTasks(tasks, SortByCreatedAt)
	assert.Equal(t, "new", sorted[0].ID)
	assert.Equal(t, "mid", sorted[1].ID)
	assert.Equal(t, "old", sorted[2].ID)
}

func TestSortTasks_EmptyAndUnknownKey(t *testing.T) {
	assert.Empty(t, SortTasks(nil, SortByPriority))

	tasks := []models.Task{{ID: "x"}, {ID: "y"}}
	assert.Equal(t, tasks, SortTasks(tasks, SortKey("bogus")))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("due")
	require.NoError(t, err)
	assert.Equal(t, SortByDueDate, key)

	key, err = ParseSortKey("Priority")
	require.NoError(t, err)
	assert.Equal(t, SortByPriority, key)

	_, err = ParseSortKey("size")
	assert.Error(t, err)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "1h 30m", FormatMinutes(90))
}

func TestColors(t *testing.T) {
	for _, p := range models.AllPriorities {
		assert.NotEqual(t, "#9E9E9E", PriorityColor(p), "priority %s has no color", p)
	}
	assert.Equal(t, "#2196F3", StatusColor(models.StatusInProgress))
}
