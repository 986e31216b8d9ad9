package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/taskutil"
)

// Color constants for the taskman TUI theme
const (
	// Base Colors
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Field labels, user input, titles
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#1976D2" // Active borders, headers
	ColorAccentBright = "#64B5F6" // Highlights, current field

	// State Colors
	ColorError   = "#EF4444" // Validation errors
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

// priorityStyle colors text with the priority palette
func priorityStyle(p models.Priority) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(taskutil.PriorityColor(p)))
}

// statusStyle colors text with the status palette
func statusStyle(s models.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(taskutil.StatusColor(s)))
}

func textStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
