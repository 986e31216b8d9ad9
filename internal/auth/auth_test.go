package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskman/internal/mockapi"
	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *mockapi.Backend, storage.KV) {
	t.Helper()
	backend := mockapi.New(mockapi.Config{JWTSecret: "test-secret"})
	kv := storage.NewMemory()
	return New(backend.Auth, kv, nil), backend, kv
}

func TestLoginSuccess(t *testing.T) {
	s, _, kv := newTestStore(t)
	ctx := context.Background()

	var events []models.AuthState
	s.Subscribe(func(state models.AuthState) { events = append(events, state) })

	require.NoError(t, s.Login(ctx, models.Credentials{Username: "admin", Password: mockapi.Password}))

	state := s.State()
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "user-1", s.CurrentUser().ID)

	token, err := kv.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, state.Token, token)

	require.Len(t, events, 1)
	assert.True(t, events[0].IsAuthenticated)
}

func TestLoginFailureClearsSession(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, models.Credentials{Username: "alice", Password: mockapi.Password}))

	var events []models.AuthState
	s.Subscribe(func(state models.AuthState) { events = append(events, state) })

	err := s.Login(ctx, models.Credentials{Username: "alice", Password: "nope"})
	assert.ErrorIs(t, err, mockapi.ErrInvalidCredentials)

	state := s.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
	assert.Equal(t, mockapi.ErrInvalidCredentials.Error(), state.Error)
	require.Len(t, events, 1, "sign-out transition is announced")

	s.ClearError()
	assert.Empty(t, s.State().Error)
}

func TestRegister(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	err := s.Register(ctx, models.Registration{Username: "alice", Email: "x@example.com"})
	assert.ErrorIs(t, err, mockapi.ErrUsernameTaken)
	assert.NotEmpty(t, s.State().Error)

	require.NoError(t, s.Register(ctx, models.Registration{Username: "dana", Email: "dana@example.com", Password: "pw", DisplayName: "Dana"}))
	assert.Equal(t, "dana", s.CurrentUser().Username)
}

func TestLogout(t *testing.T) {
	s, backend, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, models.Credentials{Username: "bob", Password: mockapi.Password}))

	var events []models.AuthState
	unsubscribe := s.Subscribe(func(state models.AuthState) { events = append(events, state) })

	s.Logout(ctx)
	assert.False(t, s.IsAuthenticated())
	assert.False(t, backend.Auth.IsAuthenticated())
	_, err := kv.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.Len(t, events, 1)
	assert.False(t, events[0].IsAuthenticated)

	// A second logout is not a transition
	s.Logout(ctx)
	assert.Len(t, events, 1)

	unsubscribe()
	require.NoError(t, s.Login(ctx, models.Credentials{Username: "bob", Password: mockapi.Password}))
	assert.Len(t, events, 1)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	backend := mockapi.New(mockapi.Config{JWTSecret: "test-secret"})
	kv := storage.NewMemory()

	first := New(backend.Auth, kv, nil)
	require.NoError(t, first.Login(ctx, models.Credentials{Username: "alice", Password: mockapi.Password}))

	// A new process sharing the same storage picks the session up
	second := New(backend.Auth, kv, nil)
	require.NoError(t, second.Restore(ctx))
	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, "user-2", second.CurrentUser().ID)
}

func TestRestoreWithoutToken(t *testing.T) {
	s, _, _ := newTestStore(t)
	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.IsAuthenticated())
}

func TestRestoreDiscardsBadToken(t *testing.T) {
	s, _, kv := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, TokenKey, "garbage"))

	err := s.Restore(ctx)
	assert.ErrorIs(t, err, mockapi.ErrInvalidToken)
	assert.False(t, s.IsAuthenticated())

	_, err = kv.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
