package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tunedeck/api"
	"tunedeck/query"
)

// logsModel tails the backend log. It polls on the interval the query layer
// declares and stops re-arming the tick once the view loses focus.
type logsModel struct {
	res *query.Resources

	entries []api.LogEntry
	meta    query.Result
	loaded  bool
	loadErr error

	offset int // scrollback from the tail, 0 = follow
}

func newLogsModel(res *query.Resources) logsModel {
	return logsModel{res: res}
}

func (m logsModel) Update(msg tea.Msg, app *App) (logsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case logsMsg:
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.entries = msg.entries
			m.meta = msg.res
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.offset < max(len(m.entries)-1, 0) {
				m.offset++
			}
		case "down", "j":
			if m.offset > 0 {
				m.offset--
			}
		case "G", "end":
			m.offset = 0
		}
	}
	return m, nil
}

func (m logsModel) View(s Styles, width, height int) string {
	if !m.loaded {
		return s.Hint.Render("loading logs...")
	}

	lines := []string{s.Title.Render("Logs") + "  " + s.Hint.Render(fmt.Sprintf("%d entries", len(m.entries)))}
	if m.loadErr != nil {
		note := "could not refresh: " + m.loadErr.Error()
		if m.meta.Stale {
			note += " (showing cached data)"
		}
		lines = append(lines, s.Error.Render(note))
	}

	if len(m.entries) == 0 && m.loadErr == nil {
		lines = append(lines, "", s.Hint.Render("log is empty"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	shown := max(height-6, 3)
	end := len(m.entries) - m.offset
	if end > len(m.entries) {
		end = len(m.entries)
	}
	start := max(end-shown, 0)

	msgWidth := max(width-36, 16)
	for _, e := range m.entries[start:end] {
		msg := truncate(e.Msg, msgWidth)
		lines = append(lines, fmt.Sprintf("%s %-7s %s",
			s.Hint.Render(e.TS), s.level(e.Level).Render(e.Level), msg))
	}

	follow := "following"
	if m.offset > 0 {
		follow = fmt.Sprintf("scrolled back %d", m.offset)
	}
	lines = append(lines, "", s.Hint.Render("j/k scroll · G tail · "+follow))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
