package api

import (
	"context"
	"net/url"
)

// User is an account as listed by the admin endpoints. Unique by ID.
type User struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Users lists known account IDs. Non-admin sessions only see their own.
func (c *Client) Users(ctx context.Context) ([]string, error) {
	var res struct {
		Users []string `json:"users"`
	}
	if err := c.getJSON(ctx, "/api/users", nil, "could not list users", &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

// UsersDetailed lists accounts with roles. Admin only.
func (c *Client) UsersDetailed(ctx context.Context) ([]User, error) {
	var res struct {
		Users []User `json:"users"`
	}
	if err := c.getJSON(ctx, "/api/users/detailed", nil, "could not list users", &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, id, role string) error {
	payload := map[string]string{"id": id, "role": role}
	return c.sendJSON(ctx, "POST", "/api/users", nil, payload, nil, "could not create user")
}

func (c *Client) UpdateUserRole(ctx context.Context, id, role string) error {
	payload := map[string]string{"role": role}
	return c.sendJSON(ctx, "PUT", "/api/users/"+url.PathEscape(id), nil, payload, nil, "could not update user")
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.sendJSON(ctx, "DELETE", "/api/users/"+url.PathEscape(id), nil, nil, nil, "could not delete user")
}
