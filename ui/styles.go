package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the active palette. Two palettes exist; the dark-mode toggle in
// prefs picks one at startup and flips at runtime.
type Styles struct {
	Dark bool

	Normal  lipgloss.Color
	Active  lipgloss.Color
	Faint   lipgloss.Color
	Danger  lipgloss.Color
	Warning lipgloss.Color
	Good    lipgloss.Color

	Section lipgloss.Style
	Title   lipgloss.Style
	Tab     lipgloss.Style
	TabOn   lipgloss.Style
	Toast   lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{Dark: dark}
	if dark {
		s.Normal = lipgloss.Color("#f8f8f2")
		s.Active = lipgloss.Color("#ff79c6")
		s.Faint = lipgloss.Color("#6272a4")
		s.Danger = lipgloss.Color("#ff5555")
		s.Warning = lipgloss.Color("#f1fa8c")
		s.Good = lipgloss.Color("#50fa7b")
	} else {
		s.Normal = lipgloss.Color("#000000")
		s.Active = lipgloss.Color("#d33682")
		s.Faint = lipgloss.Color("#93a1a1")
		s.Danger = lipgloss.Color("#dc322f")
		s.Warning = lipgloss.Color("#b58900")
		s.Good = lipgloss.Color("#859900")
	}

	s.Section = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).Padding(0, 1)
	s.Title = lipgloss.NewStyle().Foreground(s.Normal).Bold(true)
	s.Tab = lipgloss.NewStyle().Foreground(s.Faint).Padding(0, 1)
	s.TabOn = lipgloss.NewStyle().Foreground(s.Active).Bold(true).Padding(0, 1)
	s.Toast = lipgloss.NewStyle().Foreground(s.Good)
	s.Error = lipgloss.NewStyle().Foreground(s.Danger)
	s.Hint = lipgloss.NewStyle().Foreground(s.Faint)
	return s
}

func (s Styles) level(lvl string) lipgloss.Style {
	switch strings.ToLower(lvl) {
	case "error", "critical":
		return lipgloss.NewStyle().Foreground(s.Danger)
	case "warning", "warn":
		return lipgloss.NewStyle().Foreground(s.Warning)
	case "debug":
		return lipgloss.NewStyle().Foreground(s.Faint)
	default:
		return lipgloss.NewStyle().Foreground(s.Normal)
	}
}
