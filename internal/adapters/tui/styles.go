package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/strata/internal/ui/style"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Indigo).
			Foreground(style.Mist)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(style.Slate).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(style.Indigo).
			Bold(true)
)
