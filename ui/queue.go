package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tunedeck/query"
)

// queueModel shows and edits the pending download queue for the active
// scope. New URLs are probed server-side before they are queued; alt+enter
// skips the probe.
type queueModel struct {
	res *query.Resources

	urls    []string
	meta    query.Result
	loaded  bool
	loadErr error

	cursor int
	input  textinput.Model
	adding bool
}

func newQueueModel(res *query.Resources) queueModel {
	input := textinput.New()
	input.Placeholder = "paste a URL to queue"
	input.CharLimit = 2000
	return queueModel{res: res, input: input}
}

func (m queueModel) addCmd(app *App, rawURL string, probeFirst bool) tea.Cmd {
	userID := app.scope()
	return runAction("added to queue", fetchQueue(m.res, userID), func(ctx context.Context) error {
		if probeFirst {
			probe, err := m.res.API().Probe(ctx, rawURL)
			if err != nil {
				return err
			}
			if !probe.OK {
				return fmt.Errorf("source unavailable: %s", probe.Reason)
			}
		}
		return m.res.QueueAdd(ctx, userID, []string{rawURL})
	})
}

func (m queueModel) Update(msg tea.Msg, app *App) (queueModel, tea.Cmd) {
	switch msg := msg.(type) {
	case queueMsg:
		if msg.userID != app.scope() {
			return m, nil
		}
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.urls = msg.urls
			m.meta = msg.res
			if m.cursor >= len(m.urls) {
				m.cursor = max(len(m.urls)-1, 0)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			switch msg.String() {
			case "esc":
				m.adding = false
				m.input.Blur()
				m.input.SetValue("")
				return m, nil
			case "enter", "alt+enter":
				rawURL := strings.TrimSpace(m.input.Value())
				if rawURL == "" {
					return m, nil
				}
				m.adding = false
				m.input.Blur()
				m.input.SetValue("")
				return m, m.addCmd(app, rawURL, msg.String() == "enter")
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "a":
			m.adding = true
			m.input.Focus()
			return m, textinput.Blink
		case "down", "j":
			if m.cursor < len(m.urls)-1 {
				m.cursor++
			}
			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "d", "x":
			if m.cursor < len(m.urls) {
				target := m.urls[m.cursor]
				userID := app.scope()
				return m, runAction("removed from queue", fetchQueue(m.res, userID), func(ctx context.Context) error {
					return m.res.QueueRemove(ctx, userID, []string{target})
				})
			}
			return m, nil
		case "C":
			if len(m.urls) > 0 {
				userID := app.scope()
				return m, runAction("queue cleared", fetchQueue(m.res, userID), func(ctx context.Context) error {
					return m.res.QueueClear(ctx, userID)
				})
			}
			return m, nil
		}
	}
	return m, nil
}

func (m queueModel) View(s Styles, width, height int) string {
	if !m.loaded {
		return s.Hint.Render("loading queue...")
	}

	lines := []string{s.Title.Render("Queue") + "  " + s.Hint.Render(fmt.Sprintf("%d pending", len(m.urls)))}
	if m.loadErr != nil {
		note := "could not refresh: " + m.loadErr.Error()
		if m.meta.Stale {
			note += " (showing cached data)"
		}
		lines = append(lines, s.Error.Render(note))
	}
	if m.adding {
		lines = append(lines, m.input.View())
	}

	if len(m.urls) == 0 && m.loadErr == nil {
		lines = append(lines, "", s.Hint.Render("queue is empty"))
	} else {
		maxShown := max(height-8, 3)
		start := 0
		if m.cursor >= maxShown {
			start = m.cursor - maxShown + 1
		}
		for i := start; i < len(m.urls) && i < start+maxShown; i++ {
			cursor := "  "
			style := lipgloss.NewStyle().Foreground(s.Normal)
			if i == m.cursor {
				cursor = ">>"
				style = style.Foreground(s.Active)
			}
			u := m.urls[i]
			if width > 10 {
				u = truncate(u, width-8)
			}
			lines = append(lines, fmt.Sprintf("%s %s", cursor, style.Render(u)))
		}
	}

	lines = append(lines, "", s.Hint.Render("a add (alt+enter skips probe) · d remove · C clear all"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
