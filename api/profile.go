package api

import (
	"context"
	"net/url"
)

// Profile is the current session's own account.
type Profile struct {
	UID         string `json:"uid"`
	Username    string `json:"username"`
	HasPassword bool   `json:"hasPassword"`
	Role        string `json:"role"`
}

// IsAdmin reports whether the declared role carries elevated privileges.
func (p Profile) IsAdmin() bool { return p.Role == "admin" }

func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.getJSON(ctx, "/api/profile", nil, "could not load profile", &p)
	return p, err
}

// SetCredentials sets or replaces username and password for the current
// account. The CSRF token is fetched lazily and retried once on rejection,
// since the backend rotates tokens across logins.
func (c *Client) SetCredentials(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return c.postFormCSRF(ctx, "/api/profile/credentials", form, "could not save credentials")
}

// UpdatePassword changes the password, verifying the current one server-side.
func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	form := url.Values{}
	form.Set("current_password", currentPassword)
	form.Set("new_password", newPassword)
	return c.postFormCSRF(ctx, "/api/profile/password", form, "could not change password")
}

func (c *Client) postFormCSRF(ctx context.Context, path string, form url.Values, fallback string) error {
	token, err := c.CSRFToken(ctx)
	if err != nil {
		return err
	}
	form.Set("csrf_token", token)

	err = c.postForm(ctx, path, form, fallback, nil)
	if StatusOf(err) == 403 {
		// Stale token. Refresh and retry once.
		c.mu.Lock()
		c.csrf = ""
		c.mu.Unlock()
		if token, err = c.CSRFToken(ctx); err != nil {
			return err
		}
		form.Set("csrf_token", token)
		err = c.postForm(ctx, path, form, fallback, nil)
	}
	return err
}
