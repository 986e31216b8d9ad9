// Package mockapi simulates the team backend: users, teams and tasks held in
// memory behind artificial network latency.
package mockapi

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthenticated    = errors.New("user not logged in")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTeamNotFound       = errors.New("team not found")
)

// DefaultSecret signs tokens when no secret is configured
const DefaultSecret = "taskman-dev-secret"

// Latency is the simulated round trip per call class
type Latency struct {
	Auth  time.Duration // login, register, token checks
	Read  time.Duration // task and comment reads
	Write time.Duration // task writes, team calls
}

// DefaultLatency matches the delays of the hosted demo backend
func DefaultLatency() Latency {
	return Latency{
		Auth:  1000 * time.Millisecond,
		Read:  300 * time.Millisecond,
		Write: 500 * time.Millisecond,
	}
}

// Config wires a Backend
type Config struct {
	Latency   Latency
	JWTSecret string
	Now       func() time.Time
}

// Backend bundles the three services sharing one user table
type Backend struct {
	Auth  *AuthService
	Teams *TeamService
	Tasks *TaskService
}

// New builds a seeded backend
func New(cfg Config) *Backend {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DefaultSecret
	}
	auth := NewAuthService(cfg.JWTSecret, cfg.Latency.Auth, cfg.Now)
	return &Backend{
		Auth:  auth,
		Teams: NewTeamService(auth, cfg.Latency.Write, cfg.Now),
		Tasks: NewTaskService(cfg.Latency, cfg.Now),
	}
}

// delay waits d or until ctx is done
func delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
