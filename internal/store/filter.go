package store

import (
	"slices"
	"strings"

	"github.com/balkashynov/taskman/internal/models"
)

func matches(task models.Task, f models.TaskFilter, policy FilterPolicy) bool {
	if f.Status != nil && task.Status != *f.Status {
		return false
	}
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}

	switch policy {
	case FirstMatch:
		if f.Search != "" {
			return matchesSearch(task, f.Search)
		}
		if f.DateRange != nil {
			return matchesDateRange(task, *f.DateRange)
		}
		if len(f.Tags) > 0 {
			return matchesAnyTag(task, f.Tags)
		}
		return true
	case AllDimensions:
		if f.Search != "" && !matchesSearch(task, f.Search) {
			return false
		}
		if f.DateRange != nil && !matchesDateRange(task, *f.DateRange) {
			return false
		}
		if len(f.Tags) > 0 && !matchesAnyTag(task, f.Tags) {
			return false
		}
		return true
	}
	return false
}

// matchesSearch is a case-insensitive substring match on title, description and tags
func matchesSearch(task models.Task, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(task.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(task.Description), needle) {
		return true
	}
	return slices.ContainsFunc(task.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), needle)
	})
}

func matchesDateRange(task models.Task, r models.DateRange) bool {
	if task.DueDate == nil {
		return false
	}
	return r.Contains(*task.DueDate)
}

func matchesAnyTag(task models.Task, tags []string) bool {
	return slices.ContainsFunc(tags, task.HasTag)
}
