// Package style provides the colors, glyphs and lipgloss styles shared by the
// log handler, the linear renderer and the overview browser.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Indigo = lipgloss.Color("#6366F1")
	Slate  = lipgloss.Color("#667085")
	Teal   = lipgloss.Color("#14B8A6")
	Amber  = lipgloss.Color("#F59E0B")
	Red    = lipgloss.Color("#D93025")
	Green  = lipgloss.Color("#22A06B")
	Mist   = lipgloss.Color("#E4E7EC")
)

// Glyphs.
const (
	Check     = "✓"
	Cross     = "✗"
	Warning   = "!"
	Expanded  = "▾"
	Collapsed = "▸"
	Leaf      = "•"
	Ellipsis  = "…"
	Arrow     = "→"
)

// Styles used when rendering model elements.
var (
	Title     = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	Name      = lipgloss.NewStyle().Bold(true)
	Type      = lipgloss.NewStyle().Foreground(Teal)
	Path      = lipgloss.NewStyle().Foreground(Slate)
	Counts    = lipgloss.NewStyle().Foreground(Slate).Italic(true)
	More      = lipgloss.NewStyle().Foreground(Amber)
	Selected  = lipgloss.NewStyle().Bold(true).Foreground(Mist).Background(Indigo)
	Help      = lipgloss.NewStyle().Foreground(Slate)
	Statistic = lipgloss.NewStyle().Foreground(Green)
)
