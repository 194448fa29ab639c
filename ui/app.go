// Package ui is the terminal frontend: a bubbletea program whose views
// render cached data from the query layer and trigger mutations against the
// resource client. Views declare the cache keys they depend on and render
// loading, empty, and populated states.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"tunedeck/config"
	"tunedeck/player"
	"tunedeck/prefs"
	"tunedeck/query"
	"tunedeck/session"
)

type Section int

const (
	secDashboard Section = iota
	secSongs
	secQueue
	secUsers
	secLogs
	secProfile
)

var sectionNames = map[Section]string{
	secDashboard: "Dashboard",
	secSongs:     "Songs",
	secQueue:     "Queue",
	secUsers:     "Users",
	secLogs:      "Logs",
	secProfile:   "Profile",
}

// adminOnly sections are unreachable (and invisible) without the admin role.
var adminOnly = map[Section]bool{secUsers: true, secLogs: true}

// App is the root model. It owns session state, the active user scope, the
// tab bar, and the transient status line; per-view state lives in the
// sub-models.
type App struct {
	cfg     config.Config
	gate    *session.Gate
	res     *query.Resources
	prefs   *prefs.Store
	preview *player.Preview

	styles        Styles
	width, height int
	section       Section

	scopeUserID string   // whose songs/queue are shown
	scopeIDs    []string // admin: all user ids, for scope cycling

	toast    string
	toastErr bool

	previewAfterFetch bool

	login     loginModel
	dashboard dashboardModel
	songs     songsModel
	queue     queueModel
	users     usersModel
	logs      logsModel
	profile   profileModel
}

func NewApp(cfg config.Config, gate *session.Gate, res *query.Resources, store *prefs.Store) App {
	dark, _ := store.DarkMode()
	pageSize, _ := store.PageSize()

	return App{
		cfg:       cfg,
		gate:      gate,
		res:       res,
		prefs:     store,
		preview:   player.NewPreview(),
		styles:    NewStyles(dark),
		login:     newLoginModel(gate),
		dashboard: newDashboardModel(res),
		songs:     newSongsModel(res, pageSize),
		queue:     newQueueModel(res),
		users:     newUsersModel(res, pageSize),
		logs:      newLogsModel(res),
		profile:   newProfileModel(res),
	}
}

func (a App) Init() tea.Cmd {
	return resolveSession(a.gate)
}

func (a *App) scope() string { return a.scopeUserID }

func (a *App) sections() []Section {
	order := []Section{secDashboard, secSongs, secQueue, secUsers, secLogs, secProfile}
	out := order[:0:0]
	for _, sec := range order {
		if adminOnly[sec] && !a.gate.IsAdmin() {
			continue
		}
		out = append(out, sec)
	}
	return out
}

// enterSection declares the section's cache keys by fetching them, and arms
// the poll tick for the live views.
func (a *App) enterSection(sec Section) tea.Cmd {
	a.section = sec
	switch sec {
	case secDashboard:
		return tea.Batch(fetchDashboard(a.res), pollTick(query.ResDashboard, a.res.PollInterval(query.ResDashboard)))
	case secSongs:
		return fetchSongs(a.res, a.scope())
	case secQueue:
		return fetchQueue(a.res, a.scope())
	case secUsers:
		return fetchUsers(a.res)
	case secLogs:
		return tea.Batch(fetchLogs(a.res), pollTick(query.ResLogs, a.res.PollInterval(query.ResLogs)))
	case secProfile:
		return fetchProfile(a.res)
	}
	return nil
}

// nextSection steps through the visible tabs, wrapping at either end.
func (a *App) nextSection(delta int) Section {
	secs := a.sections()
	cur := 0
	for i, sec := range secs {
		if sec == a.section {
			cur = i
			break
		}
	}
	return secs[(cur+delta+len(secs))%len(secs)]
}

func (a *App) cycleSection(delta int) tea.Cmd {
	return a.enterSection(a.nextSection(delta))
}

// cycleScope switches the user whose data is shown. Only admins have more
// than their own scope.
func (a *App) cycleScope() tea.Cmd {
	if !a.gate.IsAdmin() || len(a.scopeIDs) < 2 {
		return nil
	}
	cur := 0
	for i, id := range a.scopeIDs {
		if id == a.scopeUserID {
			cur = i
			break
		}
	}
	a.scopeUserID = a.scopeIDs[(cur+1)%len(a.scopeIDs)]
	if err := a.prefs.SetLastUser(a.scopeUserID); err != nil {
		log.Warn().Err(err).Msg("could not persist scope")
	}
	if a.section == secSongs || a.section == secQueue {
		return a.enterSection(a.section)
	}
	return nil
}

func (a *App) toggleDarkMode() tea.Cmd {
	dark := !a.styles.Dark
	a.styles = NewStyles(dark)
	if err := a.prefs.SetDarkMode(dark); err != nil {
		log.Warn().Err(err).Msg("could not persist theme")
	}
	return nil
}

// scopeIDsCmd loads the plain user-id listing an admin can scope into.
func scopeIDsCmd(res *query.Resources) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		ids, _, err := res.Users(ctx)
		if err != nil {
			return actionDoneMsg{label: "", err: err}
		}
		return scopeIDsMsg{ids: ids}
	}
}

type scopeIDsMsg struct {
	ids []string
}

func (a *App) onAuthenticated() tea.Cmd {
	profile, _ := a.gate.Profile()
	a.scopeUserID = profile.UID
	if a.gate.IsAdmin() {
		if last, err := a.prefs.LastUser(); err == nil && last != "" {
			a.scopeUserID = last
		}
	}

	cmds := []tea.Cmd{a.enterSection(secDashboard)}
	if a.gate.IsAdmin() {
		cmds = append(cmds, scopeIDsCmd(a.res))
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		tableHeight := max(a.height-10, 3)
		a.songs.tbl.SetHeight(min(tableHeight, a.songs.pageSize+1))
		a.users.tbl.SetHeight(min(tableHeight, a.users.pageSize+1))
		return a, nil

	case sessionResolvedMsg:
		if msg.err != nil {
			a.toast = "could not reach backend: " + msg.err.Error()
			a.toastErr = true
			return a, clearToastLater()
		}
		if msg.state == session.StateAuthenticated {
			return a, a.onAuthenticated()
		}
		return a, nil

	case loginDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.err == nil && a.gate.State() == session.StateAuthenticated {
			return a, tea.Batch(cmd, a.onAuthenticated())
		}
		return a, cmd

	case scopeIDsMsg:
		a.scopeIDs = msg.ids
		return a, nil

	case pollMsg:
		// Ticks re-arm only while their view is focused; a blurred view's
		// poll dies here.
		switch msg.resource {
		case query.ResDashboard:
			if a.section == secDashboard {
				return a, tea.Batch(fetchDashboard(a.res), pollTick(msg.resource, a.res.PollInterval(msg.resource)))
			}
		case query.ResLogs:
			if a.section == secLogs {
				return a, tea.Batch(fetchLogs(a.res), pollTick(msg.resource, a.res.PollInterval(msg.resource)))
			}
		}
		return a, nil

	case actionDoneMsg:
		if msg.err != nil {
			a.toast = msg.err.Error()
			a.toastErr = true
		} else if msg.label != "" {
			a.toast = msg.label
			a.toastErr = false
		}
		cmds := []tea.Cmd{clearToastLater()}
		if msg.followUp != nil {
			cmds = append(cmds, msg.followUp)
		}
		return a, tea.Batch(cmds...)

	case clearToastMsg:
		a.toast = ""
		return a, nil

	case mediaFetchedMsg:
		if msg.err != nil {
			a.toast = msg.err.Error()
			a.toastErr = true
			return a, clearToastLater()
		}
		a.toast = "fetched " + msg.path
		if msg.tags.Title != "" {
			a.toast += " (" + msg.tags.Title
			if msg.tags.Artist != "" {
				a.toast += " by " + msg.tags.Artist
			}
			a.toast += ")"
		}
		a.toastErr = false
		if a.previewAfterFetch {
			a.previewAfterFetch = false
			if err := a.preview.Play(msg.path); err != nil {
				a.toast = err.Error()
				a.toastErr = true
			}
		}
		return a, clearToastLater()

	case tea.KeyMsg:
		if a.gate.State() != session.StateAuthenticated {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}

		if !a.editing() {
			switch msg.String() {
			case "ctrl+c", "q":
				a.preview.Stop()
				return a, tea.Quit
			case "tab":
				return a, a.cycleSection(1)
			case "shift+tab":
				return a, a.cycleSection(-1)
			case "U":
				return a, a.cycleScope()
			case "ctrl+l":
				return a, a.logoutCmd()
			case " ":
				if a.preview.Playing() != "" {
					a.preview.TogglePause()
					return a, nil
				}
			}
		}
	}

	return a.updateSection(msg)
}

// editing reports whether the active view currently owns the keyboard for
// text entry, so global shortcuts stay out of the way.
func (a *App) editing() bool {
	switch a.section {
	case secSongs:
		return a.songs.filtering
	case secQueue:
		return a.queue.adding
	case secUsers:
		return a.users.filtering || a.users.creating
	case secProfile:
		return a.profile.form != formNone
	}
	return false
}

func (a App) updateSection(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.section {
	case secDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg, &a)
	case secSongs:
		a.songs, cmd = a.songs.Update(msg, &a)
	case secQueue:
		a.queue, cmd = a.queue.Update(msg, &a)
	case secUsers:
		a.users, cmd = a.users.Update(msg, &a)
	case secLogs:
		a.logs, cmd = a.logs.Update(msg, &a)
	case secProfile:
		a.profile, cmd = a.profile.Update(msg, &a)
	}
	return a, cmd
}

func (a *App) logoutCmd() tea.Cmd {
	a.preview.Stop()
	res := a.res
	gate := a.gate
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := res.API().Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("logout call failed")
		}
		gate.Logout()
		res.Store().Reset()
		return sessionResolvedMsg{state: session.StateUnauthenticated}
	}
}

func (a App) View() string {
	if a.width < 20 || a.height < 8 {
		return "Initializing..."
	}

	if a.gate.State() != session.StateAuthenticated {
		return a.login.View(a.styles, a.width)
	}

	// Tab bar
	tabs := ""
	for _, sec := range a.sections() {
		style := a.styles.Tab
		if sec == a.section {
			style = a.styles.TabOn
		}
		tabs += style.Render(sectionNames[sec])
	}
	scopeNote := ""
	if a.gate.IsAdmin() && a.scopeUserID != "" {
		scopeNote = a.styles.Hint.Render("  scope: " + a.scopeUserID + " (U cycles)")
	}

	body := ""
	bodyHeight := a.height - 5
	switch a.section {
	case secDashboard:
		body = a.dashboard.View(a.styles, a.width, bodyHeight)
	case secSongs:
		body = a.songs.View(a.styles, a.width, bodyHeight)
	case secQueue:
		body = a.queue.View(a.styles, a.width, bodyHeight)
	case secUsers:
		body = a.users.View(a.styles, a.width, bodyHeight)
	case secLogs:
		body = a.logs.View(a.styles, a.width, bodyHeight)
	case secProfile:
		body = a.profile.View(a.styles, a.width, bodyHeight)
	}

	status := ""
	if a.toast != "" {
		if a.toastErr {
			status = a.styles.Error.Render(a.toast)
		} else {
			status = a.styles.Toast.Render(a.toast)
		}
	} else if playing := a.preview.Playing(); playing != "" {
		status = a.styles.Hint.Render("playing " + playing + " (space pauses)")
	}

	frame := a.styles.Section.
		BorderForeground(a.styles.Faint).
		Width(a.width - 2).
		Height(bodyHeight).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, tabs+scopeNote, frame, status)
}

// Run builds and runs the program. Blocking; returns when the user quits.
func Run(app App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
