// Package store owns the in-memory task collection, the active filter and
// the current selection, and writes changes through a persistence adapter.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/balkashynov/taskman/internal/idgen"
	"github.com/balkashynov/taskman/internal/logging"
	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/persist"
)

// ErrNotAuthenticated is returned by Add in the multi-user variant when
// nobody is signed in
var ErrNotAuthenticated = errors.New("user not logged in")

// Store is safe for concurrent use. Adapter calls run outside the lock, so
// overlapping writes apply in the order they resolve.
type Store struct {
	mu     sync.RWMutex
	tasks  []models.Task
	filter models.TaskFilter
	errMsg string

	// The selection is held by id and resolved against tasks on read.
	// detached is returned when the id is not in the collection.
	selectedID string
	detached   *models.Task

	adapter     persist.Adapter
	variant     Variant
	policy      FilterPolicy
	now         func() time.Time
	logger      *zap.SugaredLogger
	currentUser func() *models.User
	locks       *keyedMutex
}

// New creates an empty store writing through adapter
func New(adapter persist.Adapter, opts ...Option) *Store {
	s := &Store{
		tasks:       []models.Task{},
		adapter:     adapter,
		now:         time.Now,
		currentUser: func() *models.User { return nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Load replaces the whole collection
func (s *Store) Load(tasks []models.Task) {
	loaded := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		loaded = append(loaded, t.Clone())
	}

	s.mu.Lock()
	s.tasks = loaded
	s.mu.Unlock()
}

// Reload fetches the collection from the adapter and loads it
func (s *Store) Reload(ctx context.Context) error {
	tasks, err := s.adapter.Load(ctx)
	if err != nil {
		return s.failed("load", "", err)
	}
	s.Load(tasks)
	return nil
}

// Add creates a task from draft with a fresh id and both timestamps set to now
func (s *Store) Add(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	var user *models.User
	if s.variant == MultiUser {
		if user = s.currentUser(); user == nil {
			s.setErr(ErrNotAuthenticated)
			return models.Task{}, ErrNotAuthenticated
		}
	}

	task := newTask(draft, idgen.New(), s.now())
	if user != nil {
		if task.CreatedBy == "" {
			task.CreatedBy = user.ID
		}
		if !slices.Contains(task.Watchers, task.CreatedBy) {
			task.Watchers = append(task.Watchers, task.CreatedBy)
		}
		task.Attachments = []models.Attachment{}
		task.Comments = []models.Comment{}
	}

	err := s.write(ctx, "add", task.ID, func(ctx context.Context) error {
		return s.adapter.Add(ctx, task)
	}, func() {
		s.tasks = append(s.tasks, task.Clone())
	})
	if err != nil {
		return models.Task{}, err
	}
	return task.Clone(), nil
}

// Update stamps UpdatedAt and replaces the task with the same id.
// An id missing from the collection leaves the collection unchanged.
func (s *Store) Update(ctx context.Context, task models.Task) (models.Task, error) {
	if s.locks != nil {
		defer s.locks.lock(task.ID)()
	}

	updated := task.Clone()
	updated.UpdatedAt = s.now()

	err := s.write(ctx, "update", task.ID, func(ctx context.Context) error {
		return s.adapter.Update(ctx, updated)
	}, func() {
		if idx := s.indexOf(updated.ID); idx >= 0 {
			s.tasks[idx] = updated.Clone()
		}
		if s.selectedID == updated.ID {
			c := updated.Clone()
			s.detached = &c
		}
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated.Clone(), nil
}

// Delete removes the task with id and clears the selection if it pointed there
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.locks != nil {
		defer s.locks.lock(id)()
	}

	return s.write(ctx, "delete", id, func(ctx context.Context) error {
		return s.adapter.Delete(ctx, id)
	}, func() {
		s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
		if s.selectedID == id {
			s.selectedID = ""
			s.detached = nil
		}
	})
}

// write runs persist and apply in the order the variant calls for.
// apply runs with mu held.
func (s *Store) write(ctx context.Context, op, id string, persistFn func(context.Context) error, apply func()) error {
	if s.variant == MultiUser {
		if err := persistFn(ctx); err != nil {
			return s.failed(op, id, err)
		}
		s.mu.Lock()
		apply()
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	apply()
	s.mu.Unlock()

	if err := persistFn(ctx); err != nil {
		return s.failed(op, id, err)
	}
	return nil
}

// failed records or swallows an adapter error depending on the variant
func (s *Store) failed(op, id string, err error) error {
	if s.variant == MultiUser {
		s.logger.Errorw("Task operation failed", "op", op, "task_id", id, "error", err)
		s.setErr(err)
		return err
	}
	s.logger.Warnw("Failed to persist tasks", "op", op, "task_id", id, "error", err)
	return nil
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.errMsg = err.Error()
	s.mu.Unlock()
}

// SetFilter replaces the active filter wholesale
func (s *Store) SetFilter(f models.TaskFilter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

func (s *Store) Filter() models.TaskFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetSelectedTask replaces the selection. Nil clears it. The task does not
// have to be in the collection.
func (s *Store) SetSelectedTask(task *models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task == nil {
		s.selectedID = ""
		s.detached = nil
		return
	}
	c := task.Clone()
	s.selectedID = c.ID
	s.detached = &c
}

// SelectedTask returns the live version of the selected task, nil when
// nothing is selected
func (s *Store) SelectedTask() *models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.detached == nil {
		return nil
	}
	if idx := s.indexOf(s.selectedID); idx >= 0 {
		t := s.tasks[idx].Clone()
		return &t
	}
	t := s.detached.Clone()
	return &t
}

// Tasks returns a copy of the whole collection
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// Task looks a task up by id
func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.tasks[idx].Clone(), true
	}
	return models.Task{}, false
}

// FilteredTasks evaluates the active filter, keeping collection order
func (s *Store) FilteredTasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Task{}
	for _, t := range s.tasks {
		if matches(t, s.filter, s.policy) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Err returns the last recorded error message, empty when none
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store) Variant() Variant {
	return s.variant
}

// Now reads the store's clock
func (s *Store) Now() time.Time {
	return s.now()
}

// indexOf must be called with mu held
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func newTask(d models.TaskDraft, id string, now time.Time) models.Task {
	t := models.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		Tags:        d.Tags,
		DueDate:     d.DueDate,

		EstimatedTime: d.EstimatedTime,
		ActualTime:    d.ActualTime,

		CreatedAt: now,
		UpdatedAt: now,

		CreatedBy:  d.CreatedBy,
		AssignedTo: d.AssignedTo,
		TeamID:     d.TeamID,
		Visibility: d.Visibility,
		Watchers:   d.Watchers,
	}
	t = t.Clone()
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

func cloneAll(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}
