package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/taskutil"
)

// RunTaskForm runs the add/edit wizard. ok is false when the user cancelled.
func RunTaskForm(heading string, task models.Task) (FormResult, bool, error) {
	p := tea.NewProgram(NewTaskFormModel(heading, task), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return FormResult{}, false, err
	}

	m, ok := finalModel.(TaskFormModel)
	if !ok {
		return FormResult{}, false, fmt.Errorf("unexpected model %T", finalModel)
	}
	result, saved := m.Result()
	return result, saved, nil
}

// RunListTUI runs the interactive task list and returns the task picked with
// enter, or nil when the user quit.
func RunListTUI(ctx context.Context, source TaskSource, sortKey taskutil.SortKey) (*models.Task, error) {
	p := tea.NewProgram(NewListModel(ctx, source, sortKey), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(ListModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", finalModel)
	}
	return m.Chosen(), nil
}

// RunTimerTUI shows the running session until the user stops or detaches
func RunTimerTUI(session models.Session, task models.Task) (TimerOutcome, error) {
	p := tea.NewProgram(NewTimerModel(session, task), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return TimerDetached, err
	}

	m, ok := finalModel.(TimerModel)
	if !ok {
		return TimerDetached, fmt.Errorf("unexpected model %T", finalModel)
	}
	return m.Outcome(), nil
}

// RunPasswordPrompt asks for a password without echoing it. ok is false when
// the user cancelled.
func RunPasswordPrompt(label string) (string, bool, error) {
	p := tea.NewProgram(NewPasswordModel(label))
	finalModel, err := p.Run()
	if err != nil {
		return "", false, err
	}

	m, ok := finalModel.(PasswordModel)
	if !ok {
		return "", false, fmt.Errorf("unexpected model %T", finalModel)
	}
	password, submitted := m.Value()
	return password, submitted, nil
}
