// Package api is the typed HTTP client for the manager backend. One method
// per backend operation; every method takes explicit parameters and a
// context, performs exactly one request, and returns a typed result or an
// error carrying the backend's detail message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrBadResponse marks a response body that could not be decoded.
var ErrBadResponse = errors.New("malformed backend response")

// Error is a non-2xx backend reply. Detail is the backend-provided message
// when present, else a per-endpoint fallback.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %s (HTTP %d)", e.Detail, e.Status)
}

// Client talks to the manager backend. The cookie jar carries the session
// cookies set by the login endpoint, so a single Client is one session.
type Client struct {
	baseURL string
	http    *http.Client

	mu   sync.Mutex
	csrf string
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// BaseURL returns the configured backend root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// do performs one request and decodes a JSON reply into out (when non-nil).
// Non-2xx statuses become *Error with the backend detail message, network
// failures are wrapped, undecodable bodies become ErrBadResponse.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType, fallback string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp, fallback)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, fallback string, out any) error {
	return c.do(ctx, http.MethodGet, path, q, nil, "", fallback, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, fallback string, out any) error {
	return c.do(ctx, http.MethodPost, path, nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", fallback, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, q url.Values, payload, out any, fallback string) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, q, body, contentType, fallback, out)
}

func parseError(resp *http.Response, fallback string) error {
	detail := fallback
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Detail != "" {
			detail = payload.Detail
		}
	}
	return &Error{Status: resp.StatusCode, Detail: detail}
}

// StatusOf unwraps the HTTP status from err, or 0 when err is not a backend
// reply (network or decode failure).
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
