package api

import (
	"context"
	"net/url"
)

// Session is the backend's view of the current browser-style session.
type Session struct {
	Authorized bool `json:"authorized"`
}

// Ping reports whether the session cookies are present on the backend side.
// It is the only unauthenticated read besides login.
func (c *Client) Ping(ctx context.Context) (Session, error) {
	var s Session
	err := c.getJSON(ctx, "/api/ping", nil, "session check failed", &s)
	return s, err
}

// LoginResult is the reply to a successful credential login.
type LoginResult struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
}

// Login authenticates with username and password. On success the backend
// sets session cookies on the jar; the cached CSRF token is dropped so the
// next mutating profile call fetches a fresh one.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var res LoginResult
	if err := c.postForm(ctx, "/api/login", form, "login failed", &res); err != nil {
		return LoginResult{}, err
	}

	c.mu.Lock()
	c.csrf = ""
	c.mu.Unlock()
	return res, nil
}

// LogoutURL is a navigation target, not an API call: opening it ends the
// session server-side.
func (c *Client) LogoutURL() string {
	return c.baseURL + "/auth/logout"
}

// Logout navigates to the logout endpoint on the caller's behalf, clearing
// the session cookies, and drops the cached CSRF token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, "GET", "/auth/logout", nil, nil, "", "logout failed", nil)
	c.mu.Lock()
	c.csrf = ""
	c.mu.Unlock()
	return err
}

// CSRFToken returns the token required on mutating profile calls, fetching
// and caching it on first use.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.csrf
	c.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	var res struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := c.getJSON(ctx, "/api/csrf-token", nil, "could not fetch csrf token", &res); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.csrf = res.CSRFToken
	c.mu.Unlock()
	return res.CSRFToken, nil
}
