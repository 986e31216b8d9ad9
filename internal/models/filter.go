package models

import "time"

// DateRange bounds a due date, both ends inclusive
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// TaskFilter narrows the visible task set.
// A nil pointer or empty value means no constraint on that dimension.
type TaskFilter struct {
	Status    *Status    `json:"status,omitempty"`
	Priority  *Priority  `json:"priority,omitempty"`
	Search    string     `json:"search,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing
func (f TaskFilter) IsEmpty() bool {
	return f.Status == nil && f.Priority == nil && f.Search == "" && f.DateRange == nil && len(f.Tags) == 0
}

// TaskStats is a snapshot derived from the task collection
type TaskStats struct {
	Total          int              `json:"total"`
	ByStatus       map[Status]int   `json:"byStatus"`
	ByPriority     map[Priority]int `json:"byPriority"`
	CompletedToday int              `json:"completedToday"`
	OverdueCount   int              `json:"overdueCount"`

	// Multi-user aggregates, zero/empty when nobody is signed in
	ByAssignee   map[string]int `json:"byAssignee"`
	MyTasks      int            `json:"myTasks"`
	AssignedToMe int            `json:"assignedToMe"`
	Watching     int            `json:"watching"`
}
