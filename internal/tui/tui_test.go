package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/persist"
	"github.com/balkashynov/taskman/internal/storage"
	"github.com/balkashynov/taskman/internal/store"
	"github.com/balkashynov/taskman/internal/taskutil"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestStore(t *testing.T, titles ...string) *store.Store {
	t.Helper()
	st := store.New(persist.NewLocal(storage.NewMemory(), nil))
	for _, title := range titles {
		_, err := st.Add(context.Background(), models.TaskDraft{
			Title:    title,
			Status:   models.StatusTodo,
			Priority: models.PriorityMedium,
			Tags:     []string{},
		})
		require.NoError(t, err)
	}
	return st
}

func TestListModelSearchAppliesFilter(t *testing.T) {
	st := newTestStore(t, "Write docs", "Fix login", "Review API")
	m := NewListModel(context.Background(), st, taskutil.SortByCreatedAt)
	require.Len(t, m.tasks, 3)

	next, _ := m.Update(keys("/"))
	m = next.(ListModel)
	assert.Equal(t, FocusSearch, m.focus)

	for _, r := range "login" {
		next, _ = m.Update(keys(string(r)))
		m = next.(ListModel)
	}
	assert.Equal(t, "login", st.Filter().Search)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "Fix login", m.tasks[0].Title)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ListModel)
	assert.Equal(t, FocusTable, m.focus)
	assert.Empty(t, st.Filter().Search)
	assert.Len(t, m.tasks, 3)
}

func TestListModelToggleDone(t *testing.T) {
	st := newTestStore(t, "Only task")
	m := NewListModel(context.Background(), st, taskutil.SortByDueDate)

	_, cmd := m.Update(keys("d"))
	require.NotNil(t, cmd)
	msg := cmd()
	saved, ok := msg.(taskSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.Equal(t, models.StatusCompleted, saved.task.Status)

	next, _ := m.Update(msg)
	m = next.(ListModel)
	assert.Equal(t, models.StatusCompleted, m.tasks[0].Status)
	assert.Contains(t, m.status, "Saved")
}

func TestListModelEnterSelectsTask(t *testing.T) {
	st := newTestStore(t, "First", "Second")
	m := NewListModel(context.Background(), st, taskutil.SortByCreatedAt)

	next, _ := m.Update(keys("j"))
	m = next.(ListModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ListModel)

	require.NotNil(t, cmd)
	require.NotNil(t, m.Chosen())
	require.NotNil(t, st.SelectedTask())
	assert.Equal(t, m.Chosen().ID, st.SelectedTask().ID)
}

func TestListModelSortCycle(t *testing.T) {
	st := newTestStore(t, "a")
	m := NewListModel(context.Background(), st, taskutil.SortByDueDate)
	assert.Equal(t, taskutil.SortByDueDate, sortCycle[m.sortIndex])

	next, _ := m.Update(keys("f"))
	m = next.(ListModel)
	assert.Equal(t, taskutil.SortByPriority, sortCycle[m.sortIndex])
}

func TestListModelPagination(t *testing.T) {
	st := newTestStore(t, "1", "2", "3", "4", "5", "6", "7")
	m := NewListModel(context.Background(), st, taskutil.SortByCreatedAt)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 15})
	m = next.(ListModel)
	require.Equal(t, 3, m.tasksPerPage)

	next, _ = m.Update(keys("l"))
	m = next.(ListModel)
	assert.Equal(t, 1, m.currentPage)
	assert.Equal(t, 3, m.selectedTask)

	next, _ = m.Update(keys("h"))
	m = next.(ListModel)
	assert.Equal(t, 0, m.currentPage)
	assert.NotEmpty(t, m.View())
}

func typeInto(m TaskFormModel, s string) TaskFormModel {
	next, _ := m.Update(keys(s))
	return next.(TaskFormModel)
}

func press(m TaskFormModel, k tea.KeyType) TaskFormModel {
	next, _ := m.Update(tea.KeyMsg{Type: k})
	return next.(TaskFormModel)
}

func TestTaskFormRequiresTitle(t *testing.T) {
	m := NewTaskFormModel("New task", models.Task{})
	m = press(m, tea.KeyEnter)
	assert.Equal(t, StepTitle, m.currentStep)
	assert.Equal(t, "task title is required", m.validationErr)
}

func TestTaskFormCompletes(t *testing.T) {
	m := NewTaskFormModel("New task", models.Task{})
	m = typeInto(m, "Ship release")
	m = press(m, tea.KeyEnter) // description
	m = press(m, tea.KeyEnter) // priority
	m = typeInto(m, "high")
	m = press(m, tea.KeyEnter) // status
	m = press(m, tea.KeyEnter) // tags
	m = typeInto(m, "release, ops")
	m = press(m, tea.KeyEnter) // due
	m = press(m, tea.KeyEnter) // estimate
	m = typeInto(m, "1h30m")
	m = press(m, tea.KeyEnter) // save
	require.Equal(t, StepSave, m.currentStep)
	m = press(m, tea.KeyEnter)

	result, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, "Ship release", result.Title)
	assert.Equal(t, models.PriorityHigh, result.Priority)
	assert.Equal(t, models.StatusTodo, result.Status)
	assert.Equal(t, []string{"release", "ops"}, result.Tags)
	require.NotNil(t, result.EstimatedTime)
	assert.Equal(t, 90, *result.EstimatedTime)
	assert.Nil(t, result.DueDate)
}

func TestTaskFormRejectsBadPriority(t *testing.T) {
	m := NewTaskFormModel("Edit", models.Task{Title: "x"})
	m = press(m, tea.KeyEnter)
	m = press(m, tea.KeyEnter)
	m = typeInto(m, "asap")
	m = press(m, tea.KeyEnter)
	assert.Equal(t, StepPriority, m.currentStep)
	assert.Contains(t, m.validationErr, "invalid priority")
}

func TestTaskFormCancel(t *testing.T) {
	m := NewTaskFormModel("Edit", models.Task{Title: "x"})
	m = press(m, tea.KeyEsc)
	_, ok := m.Result()
	assert.False(t, ok)
}

func TestTimerModel(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewTimerModel(models.Session{TaskID: "t1", StartedAt: start}, models.Task{Title: "Deep work"})
	m.now = func() time.Time { return start.Add(75 * time.Minute) }

	next, cmd := m.Update(timerTickMsg{})
	m = next.(TimerModel)
	assert.NotNil(t, cmd)
	assert.Equal(t, 75*time.Minute, m.elapsed)
	assert.Equal(t, "01:15:00", clockText(m.elapsed))

	next, _ = m.Update(keys("s"))
	assert.Equal(t, TimerStopped, next.(TimerModel).Outcome())

	next, _ = m.Update(keys("q"))
	assert.Equal(t, TimerDetached, next.(TimerModel).Outcome())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "12m", FormatDuration(12*time.Minute))
	assert.Equal(t, "1.5h", FormatDuration(90*time.Minute))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitTags("#a, b a"))
	assert.Equal(t, []string{}, splitTags("  "))
}

func TestPasswordPromptMasksInput(t *testing.T) {
	m := NewPasswordModel("Password")
	next, _ := m.Update(keys("hunter2"))
	m = next.(PasswordModel)

	assert.NotContains(t, m.View(), "hunter2")
	assert.Contains(t, m.View(), "•••••••")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PasswordModel)
	assert.NotNil(t, cmd)
	password, ok := m.Value()
	assert.True(t, ok)
	assert.Equal(t, "hunter2", password)
}

func TestPasswordPromptRejectsEmpty(t *testing.T) {
	m := NewPasswordModel("Password")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PasswordModel)
	assert.Nil(t, cmd)
	assert.Equal(t, "password must not be empty", m.err)
	_, ok := m.Value()
	assert.False(t, ok)
}

func TestPasswordPromptCancel(t *testing.T) {
	m := NewPasswordModel("Password")
	next, _ := m.Update(keys("secret"))
	next, _ = next.(PasswordModel).Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, ok := next.(PasswordModel).Value()
	assert.False(t, ok)
}
