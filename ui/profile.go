package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tunedeck/api"
	"tunedeck/query"
)

type profileForm int

const (
	formNone profileForm = iota
	formCredentials
	formPassword
)

// profileModel shows the session's own account and hosts the credential
// forms. All length and character rules are checked here before anything
// is sent; a rejected form never calls the backend.
type profileModel struct {
	res *query.Resources

	profile api.Profile
	loaded  bool
	loadErr error

	form    profileForm
	inputs  []textinput.Model
	focused int
	formErr string
}

func newProfileModel(res *query.Resources) profileModel {
	return profileModel{res: res}
}

func passwordInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 128
	in.EchoMode = textinput.EchoPassword
	return in
}

func (m *profileModel) openCredentials() {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.SetValue(m.profile.Username)
	username.Focus()

	m.inputs = []textinput.Model{username, passwordInput("password"), passwordInput("repeat password")}
	m.form = formCredentials
	m.focused = 0
	m.formErr = ""
}

func (m *profileModel) openPassword() {
	current := passwordInput("current password")
	current.Focus()

	m.inputs = []textinput.Model{current, passwordInput("new password"), passwordInput("repeat new password")}
	m.form = formPassword
	m.focused = 0
	m.formErr = ""
}

func (m *profileModel) closeForm() {
	m.form = formNone
	m.inputs = nil
	m.formErr = ""
}

// validate runs the client-side checks for the open form and returns the
// mutation to run, or an empty command plus the field error.
func (m *profileModel) submit() (tea.Cmd, string) {
	switch m.form {
	case formCredentials:
		username := m.inputs[0].Value()
		password := m.inputs[1].Value()
		if err := validateUsername(username); err != nil {
			return nil, err.Error()
		}
		if err := validatePasswordPair(password, m.inputs[2].Value()); err != nil {
			return nil, err.Error()
		}
		return runAction("credentials saved", fetchProfile(m.res), func(ctx context.Context) error {
			return m.res.SetCredentials(ctx, username, password)
		}), ""

	case formPassword:
		current := m.inputs[0].Value()
		next := m.inputs[1].Value()
		if current == "" {
			return nil, "current password is required"
		}
		if err := validatePasswordPair(next, m.inputs[2].Value()); err != nil {
			return nil, err.Error()
		}
		return runAction("password changed", fetchProfile(m.res), func(ctx context.Context) error {
			return m.res.UpdatePassword(ctx, current, next)
		}), ""
	}
	return nil, ""
}

func (m profileModel) Update(msg tea.Msg, app *App) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.profile = msg.profile
		}
		return m, nil

	case tea.KeyMsg:
		if m.form != formNone {
			switch msg.String() {
			case "esc":
				m.closeForm()
				return m, nil
			case "tab", "down":
				m.setFocus((m.focused + 1) % len(m.inputs))
				return m, nil
			case "shift+tab", "up":
				m.setFocus((m.focused + len(m.inputs) - 1) % len(m.inputs))
				return m, nil
			case "enter":
				cmd, formErr := m.submit()
				if formErr != "" {
					m.formErr = formErr
					return m, nil
				}
				m.closeForm()
				return m, cmd
			}
			var cmd tea.Cmd
			m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "c":
			m.openCredentials()
			return m, textinput.Blink
		case "w":
			if m.profile.HasPassword {
				m.openPassword()
				return m, textinput.Blink
			}
			return m, nil
		case "m":
			return m, app.toggleDarkMode()
		}
	}
	return m, nil
}

func (m *profileModel) setFocus(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[i].Focus()
}

func (m profileModel) View(s Styles, width, height int) string {
	if !m.loaded {
		return s.Hint.Render("loading profile...")
	}
	if m.loadErr != nil {
		return s.Error.Render("could not load profile: " + m.loadErr.Error())
	}

	username := m.profile.Username
	if username == "" {
		username = s.Hint.Render("(not set)")
	}
	password := "set"
	if !m.profile.HasPassword {
		password = s.Hint.Render("not set")
	}
	theme := "light"
	if s.Dark {
		theme = "dark"
	}

	lines := []string{
		s.Title.Render("Profile"),
		"",
		fmt.Sprintf("  %-10s %s", "user id", m.profile.UID),
		fmt.Sprintf("  %-10s %s", "username", username),
		fmt.Sprintf("  %-10s %s", "password", password),
		fmt.Sprintf("  %-10s %s", "role", m.profile.Role),
		fmt.Sprintf("  %-10s %s", "theme", theme),
	}

	if m.form != formNone {
		title := "Set credentials"
		if m.form == formPassword {
			title = "Change password"
		}
		lines = append(lines, "", s.Title.Render(title))
		for _, in := range m.inputs {
			lines = append(lines, "  "+in.View())
		}
		if m.formErr != "" {
			lines = append(lines, s.Error.Render("  "+m.formErr))
		}
		lines = append(lines, s.Hint.Render("  enter to submit · esc to cancel"))
	} else {
		hint := "c set credentials · m toggle theme"
		if m.profile.HasPassword {
			hint = "c set credentials · w change password · m toggle theme"
		}
		lines = append(lines, "", s.Hint.Render(hint))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
