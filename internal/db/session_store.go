package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/taskman/internal/models"
)

// ErrNoActiveSession is returned when stopping while nothing is tracked
var ErrNoActiveSession = errors.New("no active session found")

// SessionStore records time tracking sessions
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a session log over an opened database
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Start opens a new session for a task. Only one session may be active.
func (s *SessionStore) Start(ctx context.Context, taskID, taskTitle string, startedAt time.Time) (*models.Session, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("session already active for task %s. Stop it first with 'taskman stop'", active.TaskID)
	}

	session := models.Session{
		TaskID:    taskID,
		TaskTitle: taskTitle,
		StartedAt: startedAt,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// StopActive closes the active session at finishedAt
func (s *SessionStore) StopActive(ctx context.Context, finishedAt time.Time) (*models.Session, error) {
	session, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	session.FinishedAt = &finishedAt
	session.DurationSeconds = int(finishedAt.Sub(session.StartedAt).Seconds())

	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Active returns the currently active session, if any
func (s *SessionStore) Active(ctx context.Context) (*models.Session, error) {
	var session models.Session

	err := s.db.WithContext(ctx).Where("finished_at IS NULL").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No active session is not an error
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Discard deletes the active session without recording it
func (s *SessionStore) Discard(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("finished_at IS NULL").Delete(&models.Session{}).Error
}

// InRange returns finished sessions that started within [start, end]
func (s *SessionStore) InRange(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	var sessions []models.Session

	err := s.db.WithContext(ctx).
		Where("started_at >= ? AND started_at <= ? AND finished_at IS NOT NULL", start, end).
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ForTask returns every finished session of a task, oldest first
func (s *SessionStore) ForTask(ctx context.Context, taskID string) ([]models.Session, error) {
	var sessions []models.Session

	err := s.db.WithContext(ctx).
		Where("task_id = ? AND finished_at IS NOT NULL", taskID).
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
