// Package session resolves whether the current client session is
// authenticated and whether it carries admin privileges. The role comes
// straight from the profile entity; no admin endpoint is probed for it.
package session

import (
	"context"
	"sync"

	"tunedeck/api"
)

// State is the resolved session state. It starts unknown, resolves once on
// startup, and only moves again on an explicit login or logout.
type State int

const (
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Gate owns the session state and the resolved profile.
type Gate struct {
	api *api.Client

	mu      sync.Mutex
	state   State
	profile api.Profile
}

func New(client *api.Client) *Gate {
	return &Gate{api: client}
}

// Resolve checks the session against the backend: a ping for the cookie
// check, then the profile for identity and role. A rejected profile read
// (expired or unknown session) resolves to unauthenticated rather than an
// error.
func (g *Gate) Resolve(ctx context.Context) (State, error) {
	sess, err := g.api.Ping(ctx)
	if err != nil {
		return StateUnknown, err
	}
	if !sess.Authorized {
		g.set(StateUnauthenticated, api.Profile{})
		return StateUnauthenticated, nil
	}

	profile, err := g.api.Profile(ctx)
	if err != nil {
		if s := api.StatusOf(err); s == 401 || s == 403 {
			g.set(StateUnauthenticated, api.Profile{})
			return StateUnauthenticated, nil
		}
		return StateUnknown, err
	}

	g.set(StateAuthenticated, profile)
	return StateAuthenticated, nil
}

// Login authenticates and resolves the new session in one step.
func (g *Gate) Login(ctx context.Context, username, password string) error {
	if _, err := g.api.Login(ctx, username, password); err != nil {
		return err
	}
	_, err := g.Resolve(ctx)
	return err
}

func (g *Gate) set(state State, profile api.Profile) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
	g.profile = profile
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Profile returns the resolved account; ok is false until authenticated.
func (g *Gate) Profile() (api.Profile, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile, g.state == StateAuthenticated
}

// UserID is the session's own scope for user-scoped resources, empty until
// authenticated.
func (g *Gate) UserID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticated {
		return ""
	}
	return g.profile.UID
}

// IsAdmin reports elevated privileges from the declared profile role.
func (g *Gate) IsAdmin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == StateAuthenticated && g.profile.IsAdmin()
}

// LogoutURL is the navigation target that ends the session server-side.
// Local state is reset immediately so gated views close.
func (g *Gate) Logout() string {
	g.set(StateUnauthenticated, api.Profile{})
	return g.api.LogoutURL()
}
