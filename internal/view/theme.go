// Package view renders tracker data as styled terminal output.
package view

import (
	"github.com/aglmct/tracker/internal/domain"
	"github.com/aglmct/tracker/internal/status"
	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#007BFF"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#28A745"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#DC3545"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#FF9900"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#6C757D"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for section titles.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// HelpStyle is used for hints and empty-state messages.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SuccessStyle and ErrorStyle colour notifications.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
)

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// StatusStyle returns a color-coded style for a display status class.
func StatusStyle(class string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch class {
	case status.ClassOverdue:
		return base.Foreground(ColorRed)
	case status.ClassDueToday:
		return base.Foreground(ColorOrange)
	case status.ClassInProgress:
		return base.Foreground(ColorBlue)
	case status.ClassUpcoming:
		return base.Foreground(ColorYellow)
	case status.ClassCompleted:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// CMStatusStyle returns a color-coded style for a work order status.
func CMStatusStyle(s domain.CMStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch s {
	case domain.CMStatusOpen:
		return base.Foreground(ColorRed)
	case domain.CMStatusInProgress:
		return base.Foreground(ColorBlue)
	case domain.CMStatusCompleted:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}
