package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/parser"
	"github.com/balkashynov/taskman/internal/taskutil"
	"github.com/balkashynov/taskman/internal/tracker"
)

// TimerOutcome says how the timer view was left
type TimerOutcome int

const (
	TimerDetached TimerOutcome = iota // session keeps running
	TimerStopped                      // user asked to stop and save
)

// TimerModel represents the TUI model for time tracking
type TimerModel struct {
	width   int
	height  int
	session models.Session
	task    models.Task
	now     func() time.Time

	elapsed time.Duration
	frame   int

	outcome TimerOutcome
	done    bool
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg struct{}

// animationTickMsg drives the header animation
type animationTickMsg struct{}

// NewTimerModel creates a new timer TUI model
func NewTimerModel(session models.Session, task models.Task) TimerModel {
	m := TimerModel{
		session: session,
		task:    task,
		now:     time.Now,
	}
	m.elapsed = tracker.Elapsed(&m.session, m.now())
	return m
}

// Outcome reports whether the user stopped the session or left it running
func (m TimerModel) Outcome() TimerOutcome {
	return m.outcome
}

// Init initializes the timer model
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = tracker.Elapsed(&m.session, m.now())
		if m.done {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		m.frame = (m.frame + 1) % 4
		if m.done {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			m.outcome = TimerStopped
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.outcome = TimerDetached
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	// Narrow terminals get the timer only
	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTimerPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderTaskPanel(rightWidth),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

// renderTimerPanel renders the timer with the task title above it
func (m TimerModel) renderTimerPanel(width, height int) string {
	centered := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	anim := []string{"◐", "◓", "◑", "◒"}[m.frame]
	components := []string{
		centered.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).
			Render(fmt.Sprintf("%s  TRACKING TIME  %s", anim, anim)),
		centered.Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true).
			Render(truncate(m.task.Title, width-4)),
	}

	var clock []string
	for _, line := range strings.Split(renderBigClock(m.elapsed), "\n") {
		clock = append(clock, centered.Render(line))
	}
	components = append(components, strings.Join(clock, "\n"))

	components = append(components, centered.Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).
		Render("Started at "+m.session.StartedAt.Local().Format("15:04:05")))

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)
	return panelStyle.Render(strings.Join(components, "\n\n"))
}

// 5-line block digits for the big clock
var clockDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock draws mm:ss, or hh:mm:ss past the first hour, in block digits
func renderBigClock(d time.Duration) string {
	var lines [5]strings.Builder
	for _, char := range clockText(d) {
		art, ok := clockDigits[char]
		if !ok {
			continue
		}
		for i := range art {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

func clockText(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// renderTaskPanel renders the tracked task's details
func (m TimerModel) renderTaskPanel(width int) string {
	task := m.task
	row := lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 8)

	var b strings.Builder
	b.WriteString("\n")

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-12).
		Padding(0, 1)
	b.WriteString(titleStyle.Render(task.Title))
	b.WriteString("\n\n")

	line := func(label, value string) {
		b.WriteString(row.Render(label + ": " + value))
		b.WriteString("\n")
	}

	line("Status", statusStyle(task.Status).Bold(true).Render(string(task.Status)))
	line("Priority", priorityStyle(task.Priority).Render(string(task.Priority)))

	tags := textStyle(ColorDisabledText).Render("none")
	if len(task.Tags) > 0 {
		tags = textStyle(ColorAccentBright).Render("#" + strings.Join(task.Tags, " #"))
	}
	line("Tags", tags)

	due := textStyle(ColorDisabledText).Render("none")
	if task.DueDate != nil {
		due = textStyle(ColorWarning).Render(parser.FormatDueDate(task.DueDate, m.now()))
	}
	line("Due", due)

	spent := taskutil.FormatMinutes(models.Minutes(task.ActualTime))
	if task.EstimatedTime != nil {
		spent += " of " + taskutil.FormatMinutes(*task.EstimatedTime)
	}
	line("Tracked", textStyle(ColorSecondaryText).Render(spent))

	return b.String()
}

// renderHelpBar renders the help bar at the bottom
func (m TimerModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	return helpStyle.Render("s stop & save · esc/q exit (keep running)")
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
