package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tunedeck/api"
	"tunedeck/query"
)

// songsModel lists the downloaded songs for the active user scope.
// Filtering and paging run locally over the cached slice; only mutations
// and cache misses reach the backend.
type songsModel struct {
	res *query.Resources

	songs   []api.Song
	meta    query.Result
	loaded  bool
	loadErr error

	filter    textinput.Model
	filtering bool
	pageIndex int
	pageSize  int

	tbl           table.Model
	confirmDelete *api.SongRef
}

func newSongsModel(res *query.Resources, pageSize int) songsModel {
	filter := textinput.New()
	filter.Placeholder = "filter title or artist"
	filter.CharLimit = 120

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 2},
			{Title: "Title", Width: 34},
			{Title: "Artist", Width: 24},
			{Title: "Date", Width: 10},
		}),
		table.WithFocused(true),
	)

	return songsModel{res: res, filter: filter, tbl: tbl, pageSize: pageSize}
}

func (m songsModel) visible() []api.Song {
	out := make([]api.Song, 0, len(m.songs))
	for _, s := range m.songs {
		if matchFilter(m.filter.Value(), s.Title, s.Artist) {
			out = append(out, s)
		}
	}
	return out
}

func (m *songsModel) refreshRows() {
	filtered := m.visible()
	m.pageIndex = clampPage(m.pageIndex, len(filtered), m.pageSize)
	rows := make([]table.Row, 0, m.pageSize)
	for _, s := range page(filtered, m.pageSize, m.pageIndex) {
		ready := " "
		if s.FileAvailable {
			ready = "●"
		}
		rows = append(rows, table.Row{ready, s.Title, s.Artist, s.Date})
	}
	m.tbl.SetRows(rows)
	if m.tbl.Cursor() >= len(rows) && len(rows) > 0 {
		m.tbl.SetCursor(len(rows) - 1)
	}
}

func (m songsModel) selected() (api.Song, bool) {
	visible := page(m.visible(), m.pageSize, m.pageIndex)
	i := m.tbl.Cursor()
	if i < 0 || i >= len(visible) {
		return api.Song{}, false
	}
	return visible[i], true
}

func (m songsModel) Update(msg tea.Msg, app *App) (songsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case songsMsg:
		if msg.userID != app.scope() {
			return m, nil // stale scope, discard
		}
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.songs = msg.songs
			m.meta = msg.res
		}
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
				m.filter.Blur()
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.pageIndex = 0
				m.refreshRows()
				return m, cmd
			}
			m.refreshRows()
			return m, nil
		}

		if m.confirmDelete != nil {
			ref := *m.confirmDelete
			m.confirmDelete = nil
			if msg.String() == "y" {
				return m, runAction("song deleted", fetchSongs(m.res, app.scope()), func(ctx context.Context) error {
					_, err := m.res.DeleteSong(ctx, app.scope(), ref)
					return err
				})
			}
			return m, nil
		}

		switch msg.String() {
		case "/":
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		case "left", "h":
			m.pageIndex--
			m.refreshRows()
			return m, nil
		case "right", "l":
			m.pageIndex++
			m.refreshRows()
			return m, nil
		case "d":
			if s, ok := m.selected(); ok {
				ref := s.Ref()
				m.confirmDelete = &ref
			}
			return m, nil
		case "r", "R":
			if s, ok := m.selected(); ok {
				force := msg.String() == "R"
				label := "song requeued"
				if force {
					label = "song requeued (forced)"
				}
				ref := s.Ref()
				return m, runAction(label, fetchSongs(m.res, app.scope()), func(ctx context.Context) error {
					_, err := m.res.Redownload(ctx, app.scope(), ref, force)
					return err
				})
			}
			return m, nil
		case "f", "p":
			if s, ok := m.selected(); ok && s.FileAvailable {
				app.previewAfterFetch = msg.String() == "p"
				return m, fetchMedia(m.res.API(), app.scope(), s.Filename, app.cfg.MediaDir)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m songsModel) View(s Styles, width, height int) string {
	if !m.loaded {
		return s.Hint.Render("loading songs...")
	}

	filtered := m.visible()
	header := fmt.Sprintf("%d songs", len(m.songs))
	if m.filter.Value() != "" {
		header = fmt.Sprintf("%d of %d songs", len(filtered), len(m.songs))
	}
	if pages := pageCount(len(filtered), m.pageSize); pages > 1 {
		header += fmt.Sprintf(" · page %d/%d", m.pageIndex+1, pages)
	}

	lines := []string{s.Title.Render("Songs") + "  " + s.Hint.Render(header)}
	if m.loadErr != nil {
		note := "could not refresh: " + m.loadErr.Error()
		if m.meta.Stale {
			note += " (showing cached data)"
		}
		lines = append(lines, s.Error.Render(note))
	}
	if m.filtering || m.filter.Value() != "" {
		lines = append(lines, m.filter.View())
	}

	switch {
	case len(m.songs) == 0 && m.loadErr == nil:
		lines = append(lines, "", s.Hint.Render("no songs yet - queue something first"))
	case len(filtered) == 0:
		lines = append(lines, "", s.Hint.Render("nothing matches the filter"))
	default:
		lines = append(lines, m.tbl.View())
	}

	if m.confirmDelete != nil {
		lines = append(lines, s.Error.Render("delete selected song? press y to confirm"))
	}
	lines = append(lines, s.Hint.Render("/ filter · h/l pages · d delete · r redownload · R force · f fetch · p preview"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
