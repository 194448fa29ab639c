package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tunedeck/api"
	"tunedeck/media"
	"tunedeck/query"
	"tunedeck/session"
)

// Every backend interaction runs as a tea.Cmd and reports back as one of
// the messages below. Commands hit the query layer, never the api client
// directly, except for the probe and media helpers that bypass the cache.

const cmdTimeout = 45 * time.Second

type sessionResolvedMsg struct {
	state session.State
	err   error
}

type loginDoneMsg struct {
	err error
}

type songsMsg struct {
	userID string
	songs  []api.Song
	res    query.Result
	err    error
}

type queueMsg struct {
	userID string
	urls   []string
	res    query.Result
	err    error
}

type usersMsg struct {
	users []api.User
	res   query.Result
	err   error
}

type logsMsg struct {
	entries []api.LogEntry
	res     query.Result
	err     error
}

type dashboardMsg struct {
	snapshot api.Dashboard
	res      query.Result
	err      error
}

type profileMsg struct {
	profile api.Profile
	res     query.Result
	err     error
}

// actionDoneMsg closes out any mutation: a toast label, the error if it
// failed, and follow-up commands (typically a refetch of the view's keys).
type actionDoneMsg struct {
	label    string
	err      error
	followUp tea.Cmd
}

type pollMsg struct {
	resource string
}

type mediaFetchedMsg struct {
	path string
	tags media.Tags
	err  error
}

type clearToastMsg struct{}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cmdTimeout)
}

func resolveSession(gate *session.Gate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		state, err := gate.Resolve(ctx)
		return sessionResolvedMsg{state: state, err: err}
	}
}

func doLogin(gate *session.Gate, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return loginDoneMsg{err: gate.Login(ctx, username, password)}
	}
}

func fetchSongs(res *query.Resources, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		songs, r, err := res.Songs(ctx, userID)
		return songsMsg{userID: userID, songs: songs, res: r, err: err}
	}
}

func fetchQueue(res *query.Resources, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		urls, r, err := res.Queue(ctx, userID)
		return queueMsg{userID: userID, urls: urls, res: r, err: err}
	}
}

func fetchUsers(res *query.Resources) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		users, r, err := res.UsersDetailed(ctx)
		return usersMsg{users: users, res: r, err: err}
	}
}

func fetchLogs(res *query.Resources) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		entries, r, err := res.Logs(ctx)
		return logsMsg{entries: entries, res: r, err: err}
	}
}

func fetchDashboard(res *query.Resources) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		snap, r, err := res.Dashboard(ctx)
		return dashboardMsg{snapshot: snap, res: r, err: err}
	}
}

func fetchProfile(res *query.Resources) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		p, r, err := res.Profile(ctx)
		return profileMsg{profile: p, res: r, err: err}
	}
}

// runAction wraps a mutation into a command. followUp runs regardless of
// the outcome so the view refreshes to confirmed server state.
func runAction(label string, followUp tea.Cmd, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return actionDoneMsg{label: label, err: op(ctx), followUp: followUp}
	}
}

// pollTick re-arms itself from the Update loop while its view is focused.
func pollTick(resource string, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return pollMsg{resource: resource}
	})
}

func clearToastLater() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func fetchMedia(client *api.Client, userID, filename, destDir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		path, err := client.FetchMedia(ctx, userID, filename, destDir)
		if err != nil {
			return mediaFetchedMsg{err: err}
		}
		return mediaFetchedMsg{path: path, tags: media.ReadTags(path)}
	}
}
