package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tunedeck/api"
	"tunedeck/query"
)

// dashboardModel renders the server-computed snapshot and redraws it
// wholesale on each poll.
type dashboardModel struct {
	res *query.Resources

	snap    api.Dashboard
	meta    query.Result
	loaded  bool
	loadErr error
}

func newDashboardModel(res *query.Resources) dashboardModel {
	return dashboardModel{res: res}
}

func (m dashboardModel) Update(msg tea.Msg, app *App) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(dashboardMsg); ok {
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.snap = msg.snapshot
			m.meta = msg.res
		}
	}
	return m, nil
}

func toolLine(s Styles, name string, t api.ToolStatus) string {
	state := s.Toast.Render("ok")
	if t.Status != "ok" && t.Status != "present" {
		state = s.Error.Render(t.Status)
	}
	detail := t.Version
	if detail == "" {
		detail = t.Detail
	}
	if t.UpdateAvailable {
		detail += " " + s.Hint.Render("(update available: "+t.Latest+")")
	}
	return fmt.Sprintf("  %-12s %s %s", name, state, detail)
}

func (m dashboardModel) View(s Styles, width, height int) string {
	if !m.loaded {
		return s.Hint.Render("loading dashboard...")
	}

	lines := []string{s.Title.Render("Dashboard")}
	if m.loadErr != nil {
		note := "could not refresh: " + m.loadErr.Error()
		if m.meta.Stale {
			note += " (showing cached data)"
		}
		lines = append(lines, s.Error.Render(note))
		if !m.meta.Stale {
			return lipgloss.JoinVertical(lipgloss.Left, lines...)
		}
	}

	lines = append(lines, "",
		fmt.Sprintf("  songs in library  %d", m.snap.SongCount),
		fmt.Sprintf("  queued downloads  %d", m.snap.QueueSize),
	)

	if len(m.snap.RecentSongs) > 0 {
		lines = append(lines, "", s.Title.Render("Recently added"))
		for _, song := range m.snap.RecentSongs {
			lines = append(lines, fmt.Sprintf("  %s - %s %s",
				song.Title, song.Artist, s.Hint.Render(song.Date)))
		}
	}

	if ad := m.snap.AdminData; ad != nil {
		lines = append(lines, "", s.Title.Render("System"),
			fmt.Sprintf("  %-12s %d", "accounts", ad.TotalUsers),
			toolLine(s, "downloader", ad.DownloaderTool),
			toolLine(s, "transcoder", ad.TranscoderTool),
			toolLine(s, "cookies", ad.CookiesStatus),
			toolLine(s, "sync", ad.SyncStatus),
		)
		summary := fmt.Sprintf("  %-12s %d errors, %d warnings (24h)",
			"log summary", ad.LogSummary.Error, ad.LogSummary.Warning)
		if ad.LogSummary.Error > 0 {
			summary = s.Error.Render(summary)
		}
		lines = append(lines, summary)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
