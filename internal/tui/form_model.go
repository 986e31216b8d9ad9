package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/parser"
)

// Step represents the current step in the wizard
type Step int

const (
	StepTitle Step = iota
	StepDescription
	StepPriority
	StepStatus
	StepTags
	StepDueDate
	StepEstimate
	StepSave
)

var stepLabels = []string{"Title", "Description", "Priority", "Status", "Tags", "Due Date", "Estimate", "Save"}

// FormResult holds the validated values of a completed form
type FormResult struct {
	Title         string
	Description   string
	Priority      models.Priority
	Status        models.Status
	Tags          []string
	DueDate       *time.Time
	EstimatedTime *int
}

// TaskFormModel is a step-by-step wizard for creating or editing a task
type TaskFormModel struct {
	currentStep Step
	inputs      []textinput.Model
	width       int
	height      int
	now         func() time.Time

	heading       string
	validationErr string
	completed     bool
	cancelled     bool
	result        FormResult
}

// NewTaskFormModel creates a form prefilled with task's values.
// Pass a zero Task for an empty "create" form.
func NewTaskFormModel(heading string, task models.Task) TaskFormModel {
	inputs := make([]textinput.Model, StepSave)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
		inputs[i].TextStyle = textStyle(ColorPrimaryText)
		inputs[i].PlaceholderStyle = textStyle(ColorDisabledText)
		inputs[i].Cursor.Style = textStyle(ColorAccentBright)
	}

	inputs[StepTitle].Placeholder = "Enter task title... (required)"
	inputs[StepTitle].CharLimit = 200
	inputs[StepDescription].Placeholder = "Description (Enter to skip)"
	inputs[StepDescription].CharLimit = 500
	inputs[StepPriority].Placeholder = "low/medium/high/urgent or 1-4 (default medium)"
	inputs[StepPriority].CharLimit = 10
	inputs[StepStatus].Placeholder = "todo/in_progress/completed/cancelled (default todo)"
	inputs[StepStatus].CharLimit = 20
	inputs[StepTags].Placeholder = "Comma separated tags (Enter to skip)"
	inputs[StepTags].CharLimit = 200
	inputs[StepDueDate].Placeholder = "dd/mm/yyyy, yyyy-mm-dd, today, 3 days, 2 weeks (Enter to skip)"
	inputs[StepDueDate].CharLimit = 50
	inputs[StepEstimate].Placeholder = "Minutes or a duration like 1h30m (Enter to skip)"
	inputs[StepEstimate].CharLimit = 20

	inputs[StepTitle].SetValue(task.Title)
	inputs[StepDescription].SetValue(task.Description)
	inputs[StepPriority].SetValue(string(task.Priority))
	inputs[StepStatus].SetValue(string(task.Status))
	inputs[StepTags].SetValue(strings.Join(task.Tags, ", "))
	if task.DueDate != nil {
		inputs[StepDueDate].SetValue(task.DueDate.Format("02/01/2006"))
	}
	if task.EstimatedTime != nil {
		inputs[StepEstimate].SetValue(strconv.Itoa(*task.EstimatedTime))
	}

	inputs[StepTitle].Focus()

	return TaskFormModel{
		currentStep: StepTitle,
		inputs:      inputs,
		heading:     heading,
		now:         time.Now,
	}
}

// Result returns the form values and whether the user saved them
func (m TaskFormModel) Result() (FormResult, bool) {
	return m.result, m.completed && !m.cancelled
}

// Init initializes the model
func (m TaskFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m TaskFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputWidth := min(max(m.width*2/3-10, 30), 80)
		for i := range m.inputs {
			m.inputs[i].Width = inputWidth
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter", "tab", "down":
			if m.currentStep == StepSave {
				return m.save()
			}
			if err := m.validateStep(m.currentStep); err != nil {
				m.validationErr = err.Error()
				return m, nil
			}
			return m.goTo(m.currentStep + 1)

		case "shift+tab", "up":
			if m.currentStep > StepTitle {
				return m.goTo(m.currentStep - 1)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.currentStep < StepSave {
		m.inputs[m.currentStep], cmd = m.inputs[m.currentStep].Update(msg)
		m.validationErr = ""
	}
	return m, cmd
}

func (m TaskFormModel) goTo(step Step) (TaskFormModel, tea.Cmd) {
	m.validationErr = ""
	if m.currentStep < StepSave {
		m.inputs[m.currentStep].Blur()
	}
	m.currentStep = step
	if step < StepSave {
		return m, m.inputs[step].Focus()
	}
	return m, nil
}

// save validates every field and quits with the parsed result
func (m TaskFormModel) save() (TaskFormModel, tea.Cmd) {
	for step := StepTitle; step < StepSave; step++ {
		if err := m.validateStep(step); err != nil {
			next, cmd := m.goTo(step)
			next.validationErr = err.Error()
			return next, cmd
		}
	}
	result, _ := m.parse()
	m.result = result
	m.completed = true
	return m, tea.Quit
}

func (m TaskFormModel) validateStep(step Step) error {
	value := strings.TrimSpace(m.inputs[step].Value())
	switch step {
	case StepTitle:
		if value == "" {
			return errors.New("task title is required")
		}
	case StepPriority:
		if value != "" {
			if _, err := models.ParsePriority(value); err != nil {
				return err
			}
		}
	case StepStatus:
		if value != "" {
			if _, err := models.ParseStatus(value); err != nil {
				return err
			}
		}
	case StepDueDate:
		if value != "" {
			if _, err := parser.ParseDueDateAt(value, m.now()); err != nil {
				return err
			}
		}
	case StepEstimate:
		if value != "" {
			if _, err := parseEstimate(value); err != nil {
				return err
			}
		}
	}
	return nil
}

// parse converts the raw inputs into a FormResult. Callers validate first.
func (m TaskFormModel) parse() (FormResult, error) {
	value := func(s Step) string { return strings.TrimSpace(m.inputs[s].Value()) }

	r := FormResult{
		Title:       value(StepTitle),
		Description: value(StepDescription),
		Priority:    models.PriorityMedium,
		Status:      models.StatusTodo,
		Tags:        splitTags(value(StepTags)),
	}

	var err error
	if v := value(StepPriority); v != "" {
		if r.Priority, err = models.ParsePriority(v); err != nil {
			return r, err
		}
	}
	if v := value(StepStatus); v != "" {
		if r.Status, err = models.ParseStatus(v); err != nil {
			return r, err
		}
	}
	if v := value(StepDueDate); v != "" {
		if r.DueDate, err = parser.ParseDueDateAt(v, m.now()); err != nil {
			return r, err
		}
	}
	if v := value(StepEstimate); v != "" {
		minutes, err := parseEstimate(v)
		if err != nil {
			return r, err
		}
		r.EstimatedTime = &minutes
	}
	return r, nil
}

func parseEstimate(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("estimate must not be negative")
		}
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid estimate %q: use minutes or a duration like 1h30m", s)
	}
	return int(d.Minutes()), nil
}

// splitTags splits a comma or space separated list, dropping blanks and duplicates
func splitTags(s string) []string {
	tags := []string{}
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		tag := strings.TrimPrefix(strings.TrimSpace(field), "#")
		if tag == "" || contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// View renders the TUI
func (m TaskFormModel) View() string {
	if m.cancelled || m.completed {
		return ""
	}

	if m.width < 85 {
		return m.renderWizard()
	}

	rightWidth := 40
	leftWidth := m.width - rightWidth - 4

	leftStyle := lipgloss.NewStyle().
		Width(leftWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)
	rightStyle := lipgloss.NewStyle().
		Width(rightWidth).
		Padding(1)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(m.renderWizard()),
		" ",
		rightStyle.Render(m.renderPreview()),
	)
}

// renderWizard renders the step list and the active input
func (m TaskFormModel) renderWizard() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(m.heading))
	b.WriteString("\n\n")

	for i, label := range stepLabels {
		step := Step(i)
		switch {
		case step == m.currentStep:
			b.WriteString(textStyle(ColorAccentBright).Bold(true).Render("▶ " + label))
		case step < StepSave && strings.TrimSpace(m.inputs[step].Value()) != "":
			b.WriteString(textStyle(ColorSuccess).Render("✓ " + label))
		default:
			b.WriteString(textStyle(ColorSecondaryText).Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.currentStep < StepSave {
		b.WriteString(m.inputs[m.currentStep].View())
	} else {
		b.WriteString(textStyle(ColorPrimaryText).Render("Press Enter to save"))
	}
	b.WriteString("\n")

	if m.validationErr != "" {
		b.WriteString("\n")
		b.WriteString(textStyle(ColorError).Render(m.validationErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(textStyle(ColorHelpText).Italic(true).Render("enter/tab next · shift+tab back · esc cancel"))
	return b.String()
}

// renderPreview shows what the task will look like
func (m TaskFormModel) renderPreview() string {
	var b strings.Builder
	b.WriteString(textStyle(ColorAccentBright).Bold(true).Render("Preview"))
	b.WriteString("\n\n")

	for i := StepTitle; i < StepSave; i++ {
		v := strings.TrimSpace(m.inputs[i].Value())
		if v == "" {
			v = textStyle(ColorDisabledText).Render("-")
		}
		b.WriteString(textStyle(ColorSecondaryText).Render(stepLabels[i] + ": "))
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String()
}
