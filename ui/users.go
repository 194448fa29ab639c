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

// usersModel is the admin account listing. Filter and paging are local,
// like the song listing.
type usersModel struct {
	res *query.Resources

	users   []api.User
	meta    query.Result
	loaded  bool
	loadErr error

	filter    textinput.Model
	filtering bool
	pageIndex int
	pageSize  int

	tbl           table.Model
	creating      bool
	newID         textinput.Model
	createAdmin   bool
	confirmDelete string
	formErr       string
}

func newUsersModel(res *query.Resources, pageSize int) usersModel {
	filter := textinput.New()
	filter.Placeholder = "filter by id"
	filter.CharLimit = 64

	newID := textinput.New()
	newID.Placeholder = "numeric user id"
	newID.CharLimit = 32

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 24},
			{Title: "Role", Width: 8},
		}),
		table.WithFocused(true),
	)

	return usersModel{res: res, filter: filter, newID: newID, tbl: tbl, pageSize: pageSize}
}

func (m usersModel) visible() []api.User {
	out := make([]api.User, 0, len(m.users))
	for _, u := range m.users {
		if matchFilter(m.filter.Value(), u.ID) {
			out = append(out, u)
		}
	}
	return out
}

func (m *usersModel) refreshRows() {
	filtered := m.visible()
	m.pageIndex = clampPage(m.pageIndex, len(filtered), m.pageSize)
	rows := make([]table.Row, 0, m.pageSize)
	for _, u := range page(filtered, m.pageSize, m.pageIndex) {
		rows = append(rows, table.Row{u.ID, u.Role})
	}
	m.tbl.SetRows(rows)
	if m.tbl.Cursor() >= len(rows) && len(rows) > 0 {
		m.tbl.SetCursor(len(rows) - 1)
	}
}

func (m usersModel) selected() (api.User, bool) {
	visible := page(m.visible(), m.pageSize, m.pageIndex)
	i := m.tbl.Cursor()
	if i < 0 || i >= len(visible) {
		return api.User{}, false
	}
	return visible[i], true
}

func (m usersModel) Update(msg tea.Msg, app *App) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersMsg:
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.users = msg.users
			m.meta = msg.res
		}
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		if m.creating {
			switch msg.String() {
			case "esc":
				m.creating = false
				m.newID.Blur()
				m.newID.SetValue("")
				m.formErr = ""
				return m, nil
			case "ctrl+a":
				m.createAdmin = !m.createAdmin
				return m, nil
			case "enter":
				id := m.newID.Value()
				if err := validateUserID(id); err != nil {
					m.formErr = err.Error()
					return m, nil
				}
				role := "user"
				if m.createAdmin {
					role = "admin"
				}
				m.creating = false
				m.newID.Blur()
				m.newID.SetValue("")
				m.formErr = ""
				return m, runAction("user created", fetchUsers(m.res), func(ctx context.Context) error {
					return m.res.CreateUser(ctx, id, role)
				})
			}
			var cmd tea.Cmd
			m.newID, cmd = m.newID.Update(msg)
			return m, cmd
		}

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

		if m.confirmDelete != "" {
			id := m.confirmDelete
			m.confirmDelete = ""
			if msg.String() == "y" {
				return m, runAction("user deleted", fetchUsers(m.res), func(ctx context.Context) error {
					return m.res.DeleteUser(ctx, id)
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
		case "n":
			m.creating = true
			m.createAdmin = false
			m.newID.Focus()
			return m, textinput.Blink
		case "d":
			if u, ok := m.selected(); ok {
				m.confirmDelete = u.ID
			}
			return m, nil
		case "t":
			if u, ok := m.selected(); ok {
				role := "admin"
				if u.Role == "admin" {
					role = "user"
				}
				id := u.ID
				return m, runAction("role updated", fetchUsers(m.res), func(ctx context.Context) error {
					return m.res.UpdateUserRole(ctx, id, role)
				})
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m usersModel) View(s Styles, width, height int) string {
	if !m.loaded {
		return s.Hint.Render("loading users...")
	}

	filtered := m.visible()
	header := fmt.Sprintf("%d accounts", len(m.users))
	if pages := pageCount(len(filtered), m.pageSize); pages > 1 {
		header += fmt.Sprintf(" · page %d/%d", m.pageIndex+1, pages)
	}

	lines := []string{s.Title.Render("Users") + "  " + s.Hint.Render(header)}
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

	if m.creating {
		role := "user"
		if m.createAdmin {
			role = "admin"
		}
		lines = append(lines,
			s.Title.Render("New user"),
			m.newID.View(),
			s.Hint.Render("role: "+role+" (ctrl+a toggles) · enter to create · esc to cancel"))
		if m.formErr != "" {
			lines = append(lines, s.Error.Render(m.formErr))
		}
	}

	switch {
	case len(m.users) == 0 && m.loadErr == nil:
		lines = append(lines, "", s.Hint.Render("no accounts"))
	case len(filtered) == 0:
		lines = append(lines, "", s.Hint.Render("nothing matches the filter"))
	default:
		lines = append(lines, m.tbl.View())
	}

	if m.confirmDelete != "" {
		lines = append(lines, s.Error.Render("delete user "+m.confirmDelete+"? press y to confirm"))
	}
	lines = append(lines, s.Hint.Render("/ filter · h/l pages · n new · t toggle role · d delete"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
