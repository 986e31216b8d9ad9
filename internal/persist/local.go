package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/balkashynov/taskman/internal/logging"
	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/storage"
)

// TasksKey is the single key holding the serialized collection
const TasksKey = "personal-task-manager-tasks"

// Local keeps every task as one JSON array under TasksKey
type Local struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *zap.SugaredLogger
}

// NewLocal creates the single-user adapter over a key/value backend
func NewLocal(kv storage.KV, logger *zap.SugaredLogger) *Local {
	return &Local{kv: kv, logger: logging.OrNop(logger)}
}

// Load returns the stored collection. Missing or corrupt data yields an
// empty collection.
func (l *Local) Load(ctx context.Context) ([]models.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(ctx)
}

func (l *Local) Add(ctx context.Context, task models.Task) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks, err := l.read(ctx)
	if err != nil {
		return err
	}
	return l.write(ctx, append(tasks, task))
}

// Update replaces the stored task with the same id. Unknown ids are ignored.
func (l *Local) Update(ctx context.Context, task models.Task) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks, err := l.read(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == task.ID })
	if idx < 0 {
		return nil
	}
	tasks[idx] = task
	return l.write(ctx, tasks)
}

func (l *Local) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks, err := l.read(ctx)
	if err != nil {
		return err
	}
	tasks = slices.DeleteFunc(tasks, func(t models.Task) bool { return t.ID == id })
	return l.write(ctx, tasks)
}

// Clear removes the stored collection entirely
func (l *Local) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kv.Delete(ctx, TasksKey)
}

func (l *Local) read(ctx context.Context) ([]models.Task, error) {
	data, err := l.kv.Get(ctx, TasksKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		l.logger.Errorw("Error loading tasks, starting empty", "error", err)
		return []models.Task{}, nil
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (l *Local) write(ctx context.Context, tasks []models.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := l.kv.Set(ctx, TasksKey, string(data)); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}
