package mockapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskman/internal/models"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	return New(Config{JWTSecret: "test-secret"})
}

func TestLogin(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	_, err := b.Auth.Login(ctx, models.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = b.Auth.Login(ctx, models.Credentials{Username: "nobody", Password: Password})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, b.Auth.IsAuthenticated())

	state, err := b.Auth.Login(ctx, models.Credentials{Username: "alice", Password: Password})
	require.NoError(t, err)
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "user-2", state.User.ID)
	assert.NotEmpty(t, state.Token)
	require.NotNil(t, state.User.LastLoginAt)
	assert.True(t, b.Auth.IsAuthenticated())

	b.Auth.Logout()
	assert.False(t, b.Auth.IsAuthenticated())
	assert.Nil(t, b.Auth.CurrentUser())
	assert.Empty(t, b.Auth.Token())
}

func TestRegister(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		reg     models.Registration
		wantErr error
	}{
		{"duplicate username", models.Registration{Username: "bob", Email: "new@example.com"}, ErrUsernameTaken},
		{"duplicate email", models.Registration{Username: "carol", Email: "bob@example.com"}, ErrEmailTaken},
		{"new account", models.Registration{Username: "carol", Email: "carol@example.com", DisplayName: "Carol"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := b.Auth.Register(ctx, tt.reg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "carol", state.User.Username)
			assert.Equal(t, models.RoleMember, state.User.Role)
		})
	}

	_, ok := b.Auth.UserByUsername("carol")
	assert.True(t, ok)
}

func TestVerifyAndResume(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	state, err := b.Auth.Login(ctx, models.Credentials{Username: "bob", Password: Password})
	require.NoError(t, err)
	b.Auth.Logout()

	user, err := b.Auth.VerifyToken(ctx, state.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-3", user.ID)

	resumed, err := b.Auth.Resume(ctx, state.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-3", resumed.User.ID)
	assert.True(t, b.Auth.IsAuthenticated())

	_, err = b.Auth.VerifyToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := New(Config{JWTSecret: "other-secret"})
	_, err = other.Auth.VerifyToken(ctx, state.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "tokens signed with another secret are rejected")
}

func TestExpiredToken(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	auth := NewAuthService("test-secret", 0, clock)
	ctx := context.Background()

	state, err := auth.Login(ctx, models.Credentials{Username: "admin", Password: Password})
	require.NoError(t, err)

	now = now.Add(tokenTTL + time.Hour)
	_, err = auth.VerifyToken(ctx, state.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLatencyHonorsContext(t *testing.T) {
	b := New(Config{Latency: Latency{Read: time.Hour}})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := b.Tasks.Tasks(ctx, "", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTeams(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	teams, err := b.Teams.UserTeams(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "team-1", teams[0].ID)

	teams, err = b.Teams.UserTeams(ctx, "user-99")
	require.NoError(t, err)
	assert.Empty(t, teams)

	_, err = b.Teams.TeamByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = b.Teams.CreateTeam(ctx, "QA", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = b.Auth.Login(ctx, models.Credentials{Username: "bob", Password: Password})
	require.NoError(t, err)
	team, err := b.Teams.CreateTeam(ctx, "QA", "testers")
	require.NoError(t, err)
	require.Len(t, team.Members, 1)
	assert.Equal(t, models.TeamRoleOwner, team.Members[0].Role)
	assert.Equal(t, models.OwnerPermissions, team.Members[0].Permissions)

	found, err := b.Teams.TeamByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "QA", found.Name)
}

func TestTaskVisibility(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	_, err := b.Tasks.CreateTask(ctx, models.Task{
		ID:         "private-1",
		Title:      "secret",
		CreatedBy:  "user-3",
		Visibility: models.VisibilityPrivate,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID string
		teamID string
		want   int
	}{
		{"creator sees private task", "user-3", "", 3},
		{"others see only public", "user-2", "", 2},
		{"team scope excludes teamless task", "user-3", "team-1", 2},
		{"no user sees everything", "", "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := b.Tasks.Tasks(ctx, tt.userID, tt.teamID)
			require.NoError(t, err)
			assert.Len(t, tasks, tt.want)
		})
	}
}

func TestTaskCRUD(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	created, err := b.Tasks.CreateTask(ctx, models.Task{Title: "new"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Comments)

	created.Title = "renamed"
	updated, err := b.Tasks.UpdateTask(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	_, err = b.Tasks.UpdateTask(ctx, models.Task{ID: "missing"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, b.Tasks.DeleteTask(ctx, created.ID))
	assert.ErrorIs(t, b.Tasks.DeleteTask(ctx, created.ID), ErrTaskNotFound)

	_, err = b.Tasks.TaskByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestComments(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := NewTaskService(Latency{}, func() time.Time { return now })
	ctx := context.Background()

	_, err := svc.AddComment(ctx, "missing", "user-1", "hi")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.AddComment(ctx, "task-1", "user-1", "first")
	require.NoError(t, err)
	now = now.Add(time.Minute)
	_, err = svc.AddComment(ctx, "task-1", "user-2", "second")
	require.NoError(t, err)

	comments, err := svc.Comments(ctx, "task-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)

	// Comments survive a full replacement of the task
	task, err := svc.TaskByID(ctx, "task-1")
	require.NoError(t, err)
	task.Comments = nil
	_, err = svc.UpdateTask(ctx, *task)
	require.NoError(t, err)
	comments, err = svc.Comments(ctx, "task-1")
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}
