package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskman/internal/models"
)

func TestStatsScenario(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.Local)
	todayNine := time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	s := New(&fakeAdapter{}, WithClock(fixedClock(now)))
	s.Load([]models.Task{
		{ID: "a", Status: models.StatusCompleted, Priority: models.PriorityHigh, CreatedAt: todayNine, UpdatedAt: todayNine},
		{ID: "b", Status: models.StatusTodo, Priority: models.PriorityLow, DueDate: &yesterday, CreatedAt: todayNine, UpdatedAt: todayNine},
	})

	stats := s.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 1, stats.OverdueCount)
	assert.Equal(t, 1, stats.ByStatus[models.StatusCompleted])
	assert.Equal(t, 0, stats.ByStatus[models.StatusCancelled])
	assert.Len(t, stats.ByStatus, 4)
	assert.Len(t, stats.ByPriority, 4)
}

func TestStatsDayWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		updatedAt time.Time
		want      int
	}{
		{"start of today counts", midnight, 1},
		{"last instant of yesterday", midnight.Add(-time.Nanosecond), 0},
		{"start of tomorrow", midnight.AddDate(0, 0, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeAdapter{}, WithClock(fixedClock(now)))
			s.Load([]models.Task{{ID: "a", Status: models.StatusCompleted, UpdatedAt: tt.updatedAt}})
			assert.Equal(t, tt.want, s.Stats().CompletedToday)
		})
	}
}

func TestCompletedTaskIsNeverOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-48 * time.Hour)
	s := New(&fakeAdapter{}, WithClock(fixedClock(now)))
	s.Load([]models.Task{
		{ID: "done", Status: models.StatusCompleted, DueDate: &past},
		{ID: "cancelled", Status: models.StatusCancelled, DueDate: &past},
		{ID: "undated", Status: models.StatusTodo},
	})
	assert.Equal(t, 1, s.Stats().OverdueCount)
}

func TestStatsTotalsAddUp(t *testing.T) {
	var tasks []models.Task
	for i, st := range models.AllStatuses {
		for j, p := range models.AllPriorities {
			if (i+j)%2 == 0 {
				tasks = append(tasks, models.Task{ID: string(st) + string(p), Status: st, Priority: p})
			}
		}
	}

	s := New(&fakeAdapter{})
	s.Load(tasks)
	stats := s.Stats()

	sumStatus, sumPriority := 0, 0
	for _, n := range stats.ByStatus {
		sumStatus += n
	}
	for _, n := range stats.ByPriority {
		sumPriority += n
	}
	assert.Equal(t, stats.Total, sumStatus)
	assert.Equal(t, stats.Total, sumPriority)
}

func TestMultiUserStats(t *testing.T) {
	var user *models.User
	s := New(&fakeAdapter{}, WithVariant(MultiUser), WithUserProvider(func() *models.User { return user }))
	s.Load([]models.Task{
		{ID: "1", CreatedBy: "user-1", AssignedTo: []string{"user-2"}, Watchers: []string{"user-1", "user-2"}},
		{ID: "2", CreatedBy: "user-1", AssignedTo: []string{"user-3", "user-2"}, Watchers: []string{"user-1"}},
		{ID: "3", CreatedBy: "user-2"},
	})

	stats := s.Stats()
	assert.Empty(t, stats.ByAssignee)
	assert.Zero(t, stats.MyTasks)
	assert.Zero(t, stats.AssignedToMe)
	assert.Zero(t, stats.Watching)

	user = &models.User{ID: "user-2"}
	stats = s.Stats()
	require.Equal(t, map[string]int{"user-2": 2, "user-3": 1}, stats.ByAssignee)
	assert.Equal(t, 1, stats.MyTasks)
	assert.Equal(t, 2, stats.AssignedToMe)
	assert.Equal(t, 1, stats.Watching)
}
