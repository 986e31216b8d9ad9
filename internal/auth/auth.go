// Package auth tracks the signed-in user for the multi-user variant and
// keeps the session token in key/value storage between runs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/balkashynov/taskman/internal/logging"
	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/storage"
)

// TokenKey is where the session token is kept
const TokenKey = "auth-token"

// Service is the backend the store signs in against
type Service interface {
	Login(ctx context.Context, creds models.Credentials) (models.AuthState, error)
	Register(ctx context.Context, reg models.Registration) (models.AuthState, error)
	Resume(ctx context.Context, token string) (models.AuthState, error)
	Logout()
}

// Store holds the auth state and notifies subscribers when a user signs in
// or out
type Store struct {
	mu     sync.RWMutex
	state  models.AuthState
	subs   map[int]func(models.AuthState)
	nextID int

	svc    Service
	kv     storage.KV
	logger *zap.SugaredLogger
}

func New(svc Service, kv storage.KV, logger *zap.SugaredLogger) *Store {
	return &Store{
		subs:   make(map[int]func(models.AuthState)),
		svc:    svc,
		kv:     kv,
		logger: logging.OrNop(logger),
	}
}

// Login signs in and persists the token. On failure the error message is
// kept in state and the session is cleared.
func (s *Store) Login(ctx context.Context, creds models.Credentials) error {
	s.begin()
	state, err := s.svc.Login(ctx, creds)
	return s.finish(ctx, state, err, "login failed")
}

// Register creates an account and signs it in
func (s *Store) Register(ctx context.Context, reg models.Registration) error {
	s.begin()
	state, err := s.svc.Register(ctx, reg)
	return s.finish(ctx, state, err, "registration failed")
}

// Restore resumes the session saved by a previous Login. Having no saved
// token is not an error. A token the backend rejects is discarded.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.kv.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read saved session: %w", err)
	}

	state, err := s.svc.Resume(ctx, token)
	if err != nil {
		s.logger.Infow("Discarding saved session", "error", err)
		if delErr := s.kv.Delete(ctx, TokenKey); delErr != nil {
			s.logger.Warnw("Failed to remove saved session", "error", delErr)
		}
		return fmt.Errorf("saved session is no longer valid: %w", err)
	}

	s.transition(models.AuthState{User: state.User, Token: state.Token, IsAuthenticated: true})
	return nil
}

// Logout ends the session and forgets the saved token
func (s *Store) Logout(ctx context.Context) {
	s.svc.Logout()
	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		s.logger.Warnw("Failed to remove saved session", "error", err)
	}
	s.transition(models.AuthState{})
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// State returns a snapshot of the auth state
func (s *Store) State() models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.state)
}

// CurrentUser returns the signed-in user, nil when signed out
func (s *Store) CurrentUser() *models.User {
	return s.State().User
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Subscribe registers fn to run after every sign-in and sign-out
func (s *Store) Subscribe(fn func(models.AuthState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Store) finish(ctx context.Context, state models.AuthState, err error, fallback string) error {
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallback
		}
		s.transition(models.AuthState{Error: msg})
		return err
	}

	if setErr := s.kv.Set(ctx, TokenKey, state.Token); setErr != nil {
		s.logger.Warnw("Failed to save session", "error", setErr)
	}
	s.transition(models.AuthState{User: state.User, Token: state.Token, IsAuthenticated: true})
	return nil
}

// transition replaces the state and notifies subscribers when the
// authenticated flag flips, or when a different user signs in
func (s *Store) transition(next models.AuthState) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	changed := prev.IsAuthenticated != next.IsAuthenticated ||
		(next.IsAuthenticated && userID(prev.User) != userID(next.User))
	var subs []func(models.AuthState)
	if changed {
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	snap := snapshot(next)
	for _, fn := range subs {
		fn(snap)
	}
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func snapshot(state models.AuthState) models.AuthState {
	if state.User != nil {
		u := *state.User
		state.User = &u
	}
	return state
}
