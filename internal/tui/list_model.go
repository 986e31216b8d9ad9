package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/parser"
	"github.com/balkashynov/taskman/internal/taskutil"
)

// TaskSource is the part of the task store the list view drives
type TaskSource interface {
	FilteredTasks() []models.Task
	Filter() models.TaskFilter
	SetFilter(models.TaskFilter)
	SetSelectedTask(*models.Task)
	Update(ctx context.Context, task models.Task) (models.Task, error)
}

// Focus represents what UI element has focus
type Focus int

const (
	FocusTable Focus = iota
	FocusSearch
)

var sortCycle = []taskutil.SortKey{
	taskutil.SortByDueDate,
	taskutil.SortByPriority,
	taskutil.SortByCreatedAt,
}

type taskSavedMsg struct {
	task models.Task
	err  error
}

// ListModel represents the TUI model for listing tasks
type ListModel struct {
	ctx    context.Context
	source TaskSource
	now    func() time.Time

	width  int
	height int

	// Task data
	tasks        []models.Task
	selectedTask int // index in tasks slice
	sortIndex    int

	// UI state
	focus  Focus
	search textinput.Model
	status string

	// Pagination
	currentPage  int
	tasksPerPage int

	chosen *models.Task
}

// NewListModel creates a new list TUI model over source
func NewListModel(ctx context.Context, source TaskSource, sortKey taskutil.SortKey) ListModel {
	search := textinput.New()
	search.Placeholder = "title, description or tag"
	search.Prompt = "Search: "
	search.CharLimit = 100
	search.SetValue(source.Filter().Search)

	m := ListModel{
		ctx:          ctx,
		source:       source,
		now:          time.Now,
		search:       search,
		focus:        FocusTable,
		tasksPerPage: 10,
	}
	for i, k := range sortCycle {
		if k == sortKey {
			m.sortIndex = i
		}
	}
	return m.refresh()
}

// Chosen returns the task confirmed with enter, nil if the user quit
func (m ListModel) Chosen() *models.Task {
	return m.chosen
}

// Init initializes the model
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Height minus header, pagination, help and borders
		availableHeight := m.height - 12
		if availableHeight < 3 {
			availableHeight = 3
		}
		m.tasksPerPage = availableHeight
		m.currentPage = m.selectedTask / m.tasksPerPage
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Saved %q", msg.task.Title)
		}
		return m.refresh(), nil

	case tea.KeyMsg:
		if m.focus == FocusSearch {
			return m.handleSearchKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			return m.moveSelectionUp(), nil

		case "down", "j":
			return m.moveSelectionDown(), nil

		case "left", "h":
			return m.prevPage(), nil

		case "right", "l":
			return m.nextPage(), nil

		case "/":
			m.focus = FocusSearch
			return m, m.search.Focus()

		case "f":
			m.sortIndex = (m.sortIndex + 1) % len(sortCycle)
			m.status = "Sorted by " + string(sortCycle[m.sortIndex])
			return m.refresh(), nil

		case "d":
			task, ok := m.current()
			if !ok {
				return m, nil
			}
			return m, m.toggleDone(task)

		case "enter":
			task, ok := m.current()
			if !ok {
				return m, nil
			}
			m.source.SetSelectedTask(&task)
			m.chosen = &task
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleSearchKeys routes keys to the search input while it has focus
func (m ListModel) handleSearchKeys(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Clear the search and return to the table
		m.search.SetValue("")
		m.search.Blur()
		m.focus = FocusTable
		return m.applySearch(), nil

	case "enter":
		m.search.Blur()
		m.focus = FocusTable
		return m.applySearch(), nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m.applySearch(), cmd
}

func (m ListModel) applySearch() ListModel {
	f := m.source.Filter()
	f.Search = strings.TrimSpace(m.search.Value())
	m.source.SetFilter(f)
	m.selectedTask = 0
	m.currentPage = 0
	return m.refresh()
}

// toggleDone flips a task between completed and todo through the store
func (m ListModel) toggleDone(task models.Task) tea.Cmd {
	ctx := m.ctx
	source := m.source
	return func() tea.Msg {
		if task.Status == models.StatusCompleted {
			task.Status = models.StatusTodo
		} else {
			task.Status = models.StatusCompleted
		}
		saved, err := source.Update(ctx, task)
		return taskSavedMsg{task: saved, err: err}
	}
}

// refresh re-reads the filtered view and keeps the selection in bounds
func (m ListModel) refresh() ListModel {
	m.tasks = taskutil.SortTasks(m.source.FilteredTasks(), sortCycle[m.sortIndex])
	if m.selectedTask >= len(m.tasks) {
		m.selectedTask = max(len(m.tasks)-1, 0)
	}
	if m.tasksPerPage > 0 {
		m.currentPage = m.selectedTask / m.tasksPerPage
	}
	return m
}

func (m ListModel) current() (models.Task, bool) {
	if m.selectedTask < 0 || m.selectedTask >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.selectedTask], true
}

// moveSelectionUp moves the selection up
func (m ListModel) moveSelectionUp() ListModel {
	if m.selectedTask > 0 {
		m.selectedTask--
		if m.selectedTask < m.currentPage*m.tasksPerPage && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

// moveSelectionDown moves the selection down
func (m ListModel) moveSelectionDown() ListModel {
	if m.selectedTask < len(m.tasks)-1 {
		m.selectedTask++
		currentPageEnd := min((m.currentPage+1)*m.tasksPerPage-1, len(m.tasks)-1)
		if m.selectedTask > currentPageEnd && m.currentPage < m.pageCount()-1 {
			m.currentPage++
		}
	}
	return m
}

// prevPage goes to previous page
func (m ListModel) prevPage() ListModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

// nextPage goes to next page
func (m ListModel) nextPage() ListModel {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selectedTask = m.currentPage * m.tasksPerPage
	}
	return m
}

func (m ListModel) pageCount() int {
	return (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
}

// View renders the TUI
func (m ListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderTaskDetails(rightWidth),
	)

	var bottom string
	if m.focus == FocusSearch {
		bottom = m.renderSearchBar()
	} else {
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		m.renderStatus(),
		bottom,
	)
}

// renderTaskTable renders the left panel with the task table
func (m ListModel) renderTaskTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))

	header := fmt.Sprintf("Tasks (%d) · sort: %s", len(m.tasks), sortCycle[m.sortIndex])
	if q := m.source.Filter().Search; q != "" {
		header += fmt.Sprintf(" · search: %q", q)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No tasks found"))
		return m.outerBorder(width).Render(b.String())
	}

	availableWidth := width - 4
	priorityWidth := 8
	statusWidth := 12
	dueWidth := 10
	titleWidth := availableWidth - priorityWidth - statusWidth - dueWidth - 6
	if titleWidth < 20 {
		titleWidth = 20
	}

	columnHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Padding(0, 1)
	headers := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		titleWidth, "TITLE",
		priorityWidth, "PRIO",
		statusWidth, "STATUS",
		dueWidth, "DUE")
	b.WriteString(columnHeaderStyle.Render(headers))
	b.WriteString("\n\n")

	now := m.now()
	startIndex := m.currentPage * m.tasksPerPage
	endIndex := min(startIndex+m.tasksPerPage, len(m.tasks))

	for i := startIndex; i < endIndex; i++ {
		task := m.tasks[i]

		title := truncate(task.Title, titleWidth)
		priority := priorityStyle(task.Priority).Render(fmt.Sprintf("%-*s", priorityWidth, task.Priority))
		status := statusStyle(task.Status).Render(fmt.Sprintf("%-*s", statusWidth, task.Status))
		due := m.renderDue(task, now, dueWidth)

		rowContent := fmt.Sprintf("%-*s %s %s %s", titleWidth, title, priority, status, due)

		if i == m.selectedTask {
			selected := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1)
			b.WriteString(selected.Render(rowContent))
		} else {
			b.WriteString(" " + rowContent)
		}
		b.WriteString("\n")
	}

	if m.tasksPerPage < len(m.tasks) {
		pageInfo := fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, m.pageCount(), len(m.tasks))
		pageStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1)
		b.WriteString(pageStyle.Render(pageInfo))
	}

	return m.outerBorder(width).Render(b.String())
}

func (m ListModel) renderDue(task models.Task, now time.Time, width int) string {
	if task.DueDate == nil {
		return textStyle(ColorDisabledText).Render(fmt.Sprintf("%-*s", width, "-"))
	}

	days := int(task.DueDate.Sub(now).Hours() / 24)
	text := task.DueDate.Format("02/01")
	color := ColorSecondaryText
	switch {
	case taskutil.IsOverdue(task, now):
		text, color = "OVERDUE", ColorError
	case days == 0:
		text, color = "TODAY", ColorWarning
	case days == 1:
		text, color = "TOMORROW", ColorWarning
	case days <= 7:
		text, color = fmt.Sprintf("%dd", days), ColorAccentBright
	}
	return textStyle(color).Render(fmt.Sprintf("%-*s", width, text))
}

func (m ListModel) outerBorder(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width)
}

// renderTaskDetails renders the right panel with task details
func (m ListModel) renderTaskDetails(width int) string {
	var b strings.Builder

	task, ok := m.current()
	if !ok {
		logoStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width)
		b.WriteString(logoStyle.Render("taskman"))
		b.WriteString("\n")
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			MarginTop(2)
		b.WriteString(emptyStyle.Render("Select a task to view details"))
		return m.outerBorder(width).Render(b.String())
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Width(width)
	b.WriteString(titleStyle.Render(task.Title))
	b.WriteString("\n\n")

	label := textStyle(ColorSecondaryText)
	field := func(name, value string) {
		b.WriteString(label.Render(name + ": "))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("ID", task.ID)
	field("Status", statusStyle(task.Status).Bold(true).Render(string(task.Status)))
	field("Priority", priorityStyle(task.Priority).Render(string(task.Priority)))
	if len(task.Tags) > 0 {
		field("Tags", textStyle(ColorAccentBright).Render(strings.Join(task.Tags, ", ")))
	}
	if task.DueDate != nil {
		field("Due", textStyle(ColorWarning).Render(parser.FormatDueDate(task.DueDate, m.now())))
	}
	if task.EstimatedTime != nil || task.ActualTime != nil {
		spent := taskutil.FormatMinutes(models.Minutes(task.ActualTime))
		if task.EstimatedTime != nil {
			spent += " / " + taskutil.FormatMinutes(*task.EstimatedTime)
		}
		field("Time", spent)
	}
	if len(task.AssignedTo) > 0 {
		field("Assigned", strings.Join(task.AssignedTo, ", "))
	}

	if task.Description != "" {
		b.WriteString("\n")
		noteStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Width(width - 2)
		b.WriteString(noteStyle.Render(task.Description))
	}

	return m.outerBorder(width).Render(b.String())
}

func (m ListModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	color := ColorSuccess
	if strings.HasPrefix(m.status, "Error") {
		color = ColorError
	}
	return textStyle(color).Render(m.status)
}

// renderSearchBar renders the search bar when active
func (m ListModel) renderSearchBar() string {
	searchStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(m.width - 2)
	return searchStyle.Render(m.search.View())
}

// renderHelpBar renders the help bar with hotkey hints
func (m ListModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	return helpStyle.Render("↑/↓ nav · ←/→ page · / search · f sort · d done · enter select · q/esc quit")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width-1 {
		return s
	}
	if width > 4 {
		return string(r[:width-4]) + "..."
	}
	return string(r[:max(width-1, 0)])
}
