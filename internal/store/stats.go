package store

import (
	"slices"
	"time"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/taskutil"
)

// Stats derives counters from the live collection. Day boundaries use the
// location of the store clock.
func (s *Store) Stats() models.TaskStats {
	now := s.now()
	user := s.currentUser()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return computeStats(s.tasks, now, user)
}

func computeStats(tasks []models.Task, now time.Time, user *models.User) models.TaskStats {
	stats := models.TaskStats{
		Total:      len(tasks),
		ByStatus:   make(map[models.Status]int, len(models.AllStatuses)),
		ByPriority: make(map[models.Priority]int, len(models.AllPriorities)),
		ByAssignee: map[string]int{},
	}
	for _, st := range models.AllStatuses {
		stats.ByStatus[st] = 0
	}
	for _, p := range models.AllPriorities {
		stats.ByPriority[p] = 0
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	for _, t := range tasks {
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++

		if t.Status == models.StatusCompleted && !t.UpdatedAt.Before(today) && t.UpdatedAt.Before(tomorrow) {
			stats.CompletedToday++
		}
		if taskutil.IsOverdue(t, now) {
			stats.OverdueCount++
		}

		if user == nil {
			continue
		}
		for _, assignee := range t.AssignedTo {
			stats.ByAssignee[assignee]++
		}
		if t.CreatedBy == user.ID {
			stats.MyTasks++
		}
		if slices.Contains(t.AssignedTo, user.ID) {
			stats.AssignedToMe++
		}
		if slices.Contains(t.Watchers, user.ID) {
			stats.Watching++
		}
	}

	return stats
}
