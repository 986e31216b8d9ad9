package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskman/internal/db"
	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/persist"
	"github.com/balkashynov/taskman/internal/storage"
	"github.com/balkashynov/taskman/internal/store"
)

// countingTasks wraps the store to count writes
type countingTasks struct {
	*store.Store
	updates int
}

func (c *countingTasks) Update(ctx context.Context, task models.Task) (models.Task, error) {
	c.updates++
	return c.Store.Update(ctx, task)
}

type fixture struct {
	tasks   *countingTasks
	tracker *Tracker
	now     time.Time
	taskID  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.Open(db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	f := &fixture{now: time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)}
	s := store.New(persist.NewLocal(storage.NewMemory(), nil))
	task, err := s.Add(context.Background(), models.TaskDraft{
		Title:      "Design",
		Status:     models.StatusInProgress,
		Priority:   models.PriorityHigh,
		ActualTime: models.IntPtr(240),
	})
	require.NoError(t, err)

	f.taskID = task.ID
	f.tasks = &countingTasks{Store: s}
	f.tracker = New(f.tasks, db.NewSessionStore(gdb), func() time.Time { return f.now }, nil)
	return f
}

func TestStopAccumulatesWholeMinutes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	session, err := f.tracker.Start(ctx, f.taskID)
	require.NoError(t, err)
	assert.Equal(t, "Design", session.TaskTitle)

	f.now = f.now.Add(25*time.Minute + 59*time.Second)
	active, err := f.tracker.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 25*time.Minute+59*time.Second, Elapsed(active, f.now))
	assert.Zero(t, f.tasks.updates, "nothing is written while the timer runs")

	result, err := f.tracker.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, result.Minutes)
	require.NotNil(t, result.Task)
	assert.Equal(t, 265, models.Minutes(result.Task.ActualTime))
	assert.Equal(t, 1, f.tasks.updates)

	stored, _ := f.tasks.Task(f.taskID)
	assert.Equal(t, 265, models.Minutes(stored.ActualTime))

	active, err = f.tracker.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestPauseThenResume(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.tracker.Start(ctx, f.taskID)
	require.NoError(t, err)
	f.now = f.now.Add(10 * time.Minute)
	_, err = f.tracker.Pause(ctx)
	require.NoError(t, err)

	_, err = f.tracker.Start(ctx, f.taskID)
	require.NoError(t, err)
	f.now = f.now.Add(5 * time.Minute)
	_, err = f.tracker.Stop(ctx)
	require.NoError(t, err)

	stored, _ := f.tasks.Task(f.taskID)
	assert.Equal(t, 255, models.Minutes(stored.ActualTime))
	assert.Equal(t, 2, f.tasks.updates)
}

func TestStopWithoutSession(t *testing.T) {
	f := setup(t)
	_, err := f.tracker.Stop(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStartUnknownTask(t *testing.T) {
	f := setup(t)
	_, err := f.tracker.Start(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestStopAfterTaskDeleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.tracker.Start(ctx, f.taskID)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Delete(ctx, f.taskID))

	f.now = f.now.Add(3 * time.Minute)
	result, err := f.tracker.Stop(ctx)
	require.NoError(t, err)
	assert.Nil(t, result.Task)
	assert.Equal(t, 3, result.Minutes)
	assert.Zero(t, f.tasks.updates)
}

func TestAddManual(t *testing.T) {
	tests := []struct {
		name    string
		taskID  string
		minutes int
		wantErr error
		want    int
	}{
		{"positive minutes", "", 30, nil, 270},
		{"zero", "", 0, ErrInvalidMinutes, 240},
		{"negative", "", -5, ErrInvalidMinutes, 240},
		{"unknown task", "ghost", 30, ErrTaskNotFound, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			id := tt.taskID
			if id == "" {
				id = f.taskID
			}

			_, err := f.tracker.AddManual(context.Background(), id, tt.minutes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			stored, _ := f.tasks.Task(f.taskID)
			assert.Equal(t, tt.want, models.Minutes(stored.ActualTime))
		})
	}
}
