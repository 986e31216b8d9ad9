// Package tracker accumulates time spent on tasks. A running session lives
// in the session log so it survives between commands.
package tracker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/balkashynov/taskman/internal/logging"
	"github.com/balkashynov/taskman/internal/models"
)

var (
	ErrInvalidMinutes  = errors.New("please enter a valid number of minutes")
	ErrNoActiveSession = errors.New("no active time tracking session")
	ErrTaskNotFound    = errors.New("task not found")
)

// SessionLog stores tracking sessions
type SessionLog interface {
	Start(ctx context.Context, taskID, taskTitle string, startedAt time.Time) (*models.Session, error)
	StopActive(ctx context.Context, finishedAt time.Time) (*models.Session, error)
	Active(ctx context.Context) (*models.Session, error)
}

// Tasks is the part of the task store the tracker writes through
type Tasks interface {
	Task(id string) (models.Task, bool)
	Update(ctx context.Context, task models.Task) (models.Task, error)
}

// Tracker starts and stops sessions and adds their minutes to tasks
type Tracker struct {
	tasks  Tasks
	log    SessionLog
	now    func() time.Time
	logger *zap.SugaredLogger
}

// New creates a tracker. A nil clock means time.Now.
func New(tasks Tasks, log SessionLog, now func() time.Time, logger *zap.SugaredLogger) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{tasks: tasks, log: log, now: now, logger: logging.OrNop(logger)}
}

// Result describes a finished session
type Result struct {
	Session *models.Session
	Minutes int
	Task    *models.Task // nil when the task no longer exists
}

// Start opens a session on a task
func (t *Tracker) Start(ctx context.Context, taskID string) (*models.Session, error) {
	task, ok := t.tasks.Task(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t.log.Start(ctx, task.ID, task.Title, t.now())
}

// Active returns the running session, nil when none
func (t *Tracker) Active(ctx context.Context) (*models.Session, error) {
	return t.log.Active(ctx)
}

// Stop closes the running session and adds its whole minutes to the task's
// actual time in a single update
func (t *Tracker) Stop(ctx context.Context) (*Result, error) {
	active, err := t.log.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActiveSession
	}

	session, err := t.log.StopActive(ctx, t.now())
	if err != nil {
		return nil, err
	}

	minutes := int(Elapsed(session, *session.FinishedAt) / time.Minute)
	result := &Result{Session: session, Minutes: minutes}

	task, ok := t.tasks.Task(session.TaskID)
	if !ok {
		t.logger.Warnw("Tracked task no longer exists", "task_id", session.TaskID, "minutes", minutes)
		return result, nil
	}

	updated, err := t.accumulate(ctx, task, minutes)
	if err != nil {
		return result, err
	}
	result.Task = &updated
	return result, nil
}

// Pause closes the running session the same way Stop does. Starting the
// task again opens a fresh session.
func (t *Tracker) Pause(ctx context.Context) (*Result, error) {
	return t.Stop(ctx)
}

// AddManual adds minutes to a task's actual time
func (t *Tracker) AddManual(ctx context.Context, taskID string, minutes int) (models.Task, error) {
	if minutes <= 0 {
		return models.Task{}, ErrInvalidMinutes
	}
	task, ok := t.tasks.Task(taskID)
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	return t.accumulate(ctx, task, minutes)
}

func (t *Tracker) accumulate(ctx context.Context, task models.Task, minutes int) (models.Task, error) {
	task.ActualTime = models.IntPtr(models.Minutes(task.ActualTime) + minutes)
	return t.tasks.Update(ctx, task)
}

// Elapsed is how long a session has been running at now
func Elapsed(session *models.Session, now time.Time) time.Duration {
	if session.FinishedAt != nil {
		now = *session.FinishedAt
	}
	d := now.Sub(session.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}
