package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PasswordModel is a one-line masked prompt
type PasswordModel struct {
	label     string
	input     textinput.Model
	submitted bool
	cancelled bool
	err       string
}

// NewPasswordModel creates a masked prompt labelled with label
func NewPasswordModel(label string) PasswordModel {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "password"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 128
	input.Width = 32
	input.TextStyle = textStyle(ColorPrimaryText)
	input.PlaceholderStyle = textStyle(ColorDisabledText)
	input.Focus()

	return PasswordModel{label: label, input: input}
}

// Value returns the entered password and whether the user submitted it
func (m PasswordModel) Value() (string, bool) {
	return m.input.Value(), m.submitted && !m.cancelled
}

// Init initializes the model
func (m PasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if m.input.Value() == "" {
				m.err = "password must not be empty"
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = ""
	return m, cmd
}

// View renders the prompt
func (m PasswordModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	line := labelStyle.Render(m.label+": ") + m.input.View()
	if m.err != "" {
		line += "\n" + textStyle(ColorError).Render(m.err)
	}
	return line + "\n" + textStyle(ColorHelpText).Render("enter confirm · esc cancel") + "\n"
}
