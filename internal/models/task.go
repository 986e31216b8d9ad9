package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Status is the lifecycle state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists every status in display order
var AllStatuses = []Status{StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus accepts the canonical names plus a few shorthands ("done", "wip")
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo":
		return StatusTodo, nil
	case "in_progress", "in-progress", "progress", "wip":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("invalid status %q. Use: todo, in_progress, completed, cancelled", s)
}

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// AllPriorities lists every priority from least to most urgent
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities by urgency: urgent=0, high=1, medium=2, low=3.
// Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// ParsePriority accepts names, "med", and the numeric forms 1-4
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return PriorityLow, nil
	case "medium", "med", "2":
		return PriorityMedium, nil
	case "high", "3":
		return PriorityHigh, nil
	case "urgent", "4":
		return PriorityUrgent, nil
	}
	return "", fmt.Errorf("invalid priority %q. Use: low, medium, high, urgent or 1-4", s)
}

// Visibility is a cosmetic access label. Nothing enforces it.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityAssigned Visibility = "assigned"
	VisibilityPrivate  Visibility = "private"
)

// Valid reports whether v is one of the known visibilities
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityAssigned, VisibilityPrivate:
		return true
	}
	return false
}

// ParseVisibility parses a visibility label
func ParseVisibility(s string) (Visibility, error) {
	v := Visibility(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("invalid visibility %q. Use: public, assigned, private", s)
	}
	return v, nil
}

// Task represents a unit of trackable work
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"dueDate,omitempty"`

	// Minutes
	EstimatedTime *int `json:"estimatedTime,omitempty"`
	ActualTime    *int `json:"actualTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Collaboration fields, only meaningful in the multi-user variant
	CreatedBy   string       `json:"createdBy,omitempty"`
	AssignedTo  []string     `json:"assignedTo,omitempty"`
	TeamID      string       `json:"teamId,omitempty"`
	Visibility  Visibility   `json:"visibility,omitempty"`
	Watchers    []string     `json:"watchers,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Comments    []Comment    `json:"comments,omitempty"`
}

// TaskDraft is the input for creating a task. The store assigns ID and timestamps.
type TaskDraft struct {
	Title         string
	Description   string
	Status        Status
	Priority      Priority
	Tags          []string
	DueDate       *time.Time
	EstimatedTime *int
	ActualTime    *int

	CreatedBy  string
	AssignedTo []string
	TeamID     string
	Visibility Visibility
	Watchers   []string
}

// Clone returns a deep copy so callers can't mutate store-owned slices.
// Nil slices stay nil and empty slices stay empty.
func (t Task) Clone() Task {
	c := t
	c.Tags = slices.Clone(t.Tags)
	c.AssignedTo = slices.Clone(t.AssignedTo)
	c.Watchers = slices.Clone(t.Watchers)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.EstimatedTime != nil {
		v := *t.EstimatedTime
		c.EstimatedTime = &v
	}
	if t.ActualTime != nil {
		v := *t.ActualTime
		c.ActualTime = &v
	}
	c.Attachments = slices.Clone(t.Attachments)
	c.Comments = slices.Clone(t.Comments)
	return c
}

// HasTag reports whether the task carries exactly this tag
func (t Task) HasTag(tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}

// Minutes returns the value of an optional minute field, 0 when unset
func Minutes(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// IntPtr is a small helper for optional minute fields
func IntPtr(v int) *int {
	return &v
}

// Attachment describes a file attached to a task
type Attachment struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
	URL          string    `json:"url"`
}

// Comment is a note left on a task. ParentID is set for replies.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ParentID  string    `json:"parentId,omitempty"`
}
