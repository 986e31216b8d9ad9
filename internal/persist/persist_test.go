package persist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskman/internal/mockapi"
	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/storage"
)

func sampleTask(id, title string) models.Task {
	created := time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC)
	due := created.Add(48 * time.Hour)
	return models.Task{
		ID:            id,
		Title:         title,
		Status:        models.StatusTodo,
		Priority:      models.PriorityHigh,
		Tags:          []string{"work"},
		DueDate:       &due,
		EstimatedTime: models.IntPtr(90),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestLocalRoundTrip(t *testing.T) {
	local := NewLocal(storage.NewMemory(), nil)
	ctx := context.Background()

	tasks, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	a, b := sampleTask("a", "first"), sampleTask("b", "second")
	require.NoError(t, local.Add(ctx, a))
	require.NoError(t, local.Add(ctx, b))

	tasks, err = local.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
	require.NotNil(t, tasks[0].DueDate)
	assert.True(t, a.DueDate.Equal(*tasks[0].DueDate), "dates survive the JSON encoding")
	assert.Equal(t, 90, models.Minutes(tasks[0].EstimatedTime))

	b.Title = "second, edited"
	require.NoError(t, local.Update(ctx, b))
	tasks, err = local.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second, edited", tasks[1].Title)

	require.NoError(t, local.Delete(ctx, "a"))
	tasks, err = local.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].ID)

	require.NoError(t, local.Clear(ctx))
	tasks, err = local.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestLocalUpdateUnknownIsNoop(t *testing.T) {
	kv := storage.NewMemory()
	local := NewLocal(kv, nil)
	ctx := context.Background()

	require.NoError(t, local.Add(ctx, sampleTask("a", "first")))
	require.NoError(t, local.Update(ctx, sampleTask("ghost", "nope")))

	tasks, err := local.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].ID)
}

func TestLocalCorruptDataIsEmpty(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, TasksKey, "{not json"))

	local := NewLocal(kv, nil)
	tasks, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// A write after corruption starts a fresh collection
	require.NoError(t, local.Add(ctx, sampleTask("a", "first")))
	tasks, err = local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestRemote(t *testing.T) {
	backend := mockapi.New(mockapi.Config{})
	ctx := context.Background()

	var current *models.User
	remote := NewRemote(backend.Tasks, func() *models.User { return current }, "")

	_, err := remote.Load(ctx)
	assert.ErrorIs(t, err, ErrNoUser)

	current = &models.User{ID: "user-2"}
	tasks, err := remote.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	task := sampleTask("r1", "remote")
	task.CreatedBy = "user-2"
	require.NoError(t, remote.Add(ctx, task))

	task.Title = "remote, edited"
	require.NoError(t, remote.Update(ctx, task))
	stored, err := backend.Tasks.TaskByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "remote, edited", stored.Title)

	require.NoError(t, remote.Delete(ctx, "r1"))
	assert.ErrorIs(t, remote.Delete(ctx, "r1"), mockapi.ErrTaskNotFound)
	assert.ErrorIs(t, remote.Update(ctx, task), mockapi.ErrTaskNotFound)
}
