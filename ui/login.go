package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tunedeck/session"
)

type loginModel struct {
	gate     *session.Gate
	username textinput.Model
	password textinput.Model
	focused  int
	busy     bool
	errMsg   string
}

func newLoginModel(gate *session.Gate) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return loginModel{gate: gate, username: username, password: password}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focused = 1 - m.focused
			if m.focused == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.username.Blur()
			}
			return m, nil
		case "enter":
			if m.username.Value() == "" || m.password.Value() == "" {
				m.errMsg = "username and password are required"
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			return m, doLogin(m.gate, m.username.Value(), m.password.Value())
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m loginModel) View(s Styles, width int) string {
	title := s.Title.Render("Sign in")
	status := ""
	if m.busy {
		status = s.Hint.Render("signing in...")
	} else if m.errMsg != "" {
		status = s.Error.Render(m.errMsg)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.username.View(),
		m.password.View(),
		"",
		status,
		s.Hint.Render("enter to sign in · tab to switch fields · ctrl+c to quit"),
	)
	box := s.Section.BorderForeground(s.Active).Width(min(width-4, 48)).Render(form)
	return lipgloss.NewStyle().Padding(1, 2).Render(box)
}
