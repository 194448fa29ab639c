package api

import (
	"context"
	"net/url"
)

// Queue returns the pending download URLs for a user, in backend order.
func (c *Client) Queue(ctx context.Context, userID string) ([]string, error) {
	q := url.Values{}
	q.Set("user_id", userID)

	var res struct {
		Queue []string `json:"queue"`
	}
	if err := c.getJSON(ctx, "/api/queue", q, "could not load queue", &res); err != nil {
		return nil, err
	}
	return res.Queue, nil
}

// QueueAdd appends URLs to a user's download queue.
func (c *Client) QueueAdd(ctx context.Context, userID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	q := url.Values{}
	q.Set("user_id", userID)
	payload := map[string][]string{"urls": urls}
	return c.sendJSON(ctx, "POST", "/api/queue", q, payload, nil, "could not add to queue")
}

// QueueRemove removes exactly the listed URLs, leaving others untouched.
// An empty list is a no-op and never reaches the backend: the delete
// endpoint reads a missing url list as "clear everything".
func (c *Client) QueueRemove(ctx context.Context, userID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	q := url.Values{}
	q.Set("user_id", userID)
	payload := map[string][]string{"urls": urls}
	return c.sendJSON(ctx, "DELETE", "/api/queue", q, payload, nil, "could not update queue")
}

// QueueClear drops the entire queue. The backend treats a bodyless delete
// as "remove everything".
func (c *Client) QueueClear(ctx context.Context, userID string) error {
	q := url.Values{}
	q.Set("user_id", userID)
	return c.sendJSON(ctx, "DELETE", "/api/queue", q, nil, nil, "could not clear queue")
}

// ProbeResult is the backend's verdict on whether a URL is downloadable.
type ProbeResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// Probe validates a URL before it is queued.
func (c *Client) Probe(ctx context.Context, rawURL string) (ProbeResult, error) {
	q := url.Values{}
	q.Set("url", rawURL)

	var res ProbeResult
	err := c.getJSON(ctx, "/api/probe", q, "could not probe url", &res)
	return res, err
}
