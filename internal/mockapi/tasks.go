package mockapi

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/taskman/internal/idgen"
	"github.com/balkashynov/taskman/internal/models"
)

// TaskService serves the shared task table
type TaskService struct {
	mu    sync.RWMutex
	tasks []models.Task

	latency Latency
	now     func() time.Time
}

// NewTaskService creates a task service seeded with the demo tasks
func NewTaskService(latency Latency, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		tasks:   seedTasks(now()),
		latency: latency,
		now:     now,
	}
}

// Tasks returns the tasks visible to userID, optionally narrowed to one team.
// A task is visible to its creator, assignees and watchers, and to everyone
// when public. Empty arguments skip that filter.
func (s *TaskService) Tasks(ctx context.Context, userID, teamID string) ([]models.Task, error) {
	if err := delay(ctx, s.latency.Read); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if teamID != "" && task.TeamID != teamID {
			continue
		}
		if userID != "" && !visibleTo(task, userID) {
			continue
		}
		tasks = append(tasks, task.Clone())
	}
	return tasks, nil
}

func visibleTo(task models.Task, userID string) bool {
	return task.CreatedBy == userID ||
		slices.Contains(task.AssignedTo, userID) ||
		slices.Contains(task.Watchers, userID) ||
		task.Visibility == models.VisibilityPublic
}

func (s *TaskService) TaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	if err := delay(ctx, s.latency.Read); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return nil, ErrTaskNotFound
	}
	t := s.tasks[idx].Clone()
	return &t, nil
}

// CreateTask stores a task. An id is generated when the caller has none.
// Attachments and comments always start empty.
func (s *TaskService) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if err := delay(ctx, s.latency.Write); err != nil {
		return models.Task{}, err
	}

	now := s.now()
	task = task.Clone()
	if task.ID == "" {
		task.ID = idgen.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	task.Attachments = []models.Attachment{}
	task.Comments = []models.Comment{}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	return task.Clone(), nil
}

// UpdateTask replaces a stored task. Comments and attachments are owned by
// the service and survive the replacement.
func (s *TaskService) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if err := delay(ctx, s.latency.Write); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(task.ID)
	if idx < 0 {
		return models.Task{}, ErrTaskNotFound
	}

	updated := task.Clone()
	updated.Comments = s.tasks[idx].Comments
	updated.Attachments = s.tasks[idx].Attachments
	updated.UpdatedAt = s.now()
	s.tasks[idx] = updated

	return updated.Clone(), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := delay(ctx, s.latency.Write); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return ErrTaskNotFound
	}
	s.tasks = slices.Delete(s.tasks, idx, idx+1)
	return nil
}

// AddComment appends a comment to a task and bumps its UpdatedAt
func (s *TaskService) AddComment(ctx context.Context, taskID, userID, content string) (models.Comment, error) {
	if err := delay(ctx, s.latency.Read); err != nil {
		return models.Comment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return models.Comment{}, ErrTaskNotFound
	}

	now := s.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks[idx].Comments = append(s.tasks[idx].Comments, comment)
	s.tasks[idx].UpdatedAt = now

	return comment, nil
}

// Comments returns a task's comments, oldest first
func (s *TaskService) Comments(ctx context.Context, taskID string) ([]models.Comment, error) {
	if err := delay(ctx, s.latency.Read); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return nil, ErrTaskNotFound
	}

	comments := append([]models.Comment(nil), s.tasks[idx].Comments...)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *TaskService) indexOf(taskID string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == taskID })
}
