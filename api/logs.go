package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// LogEntry is one line of the backend log. The backend mixes structured and
// plain-text sources, so anything beyond the three core fields lands in
// Extra untouched.
type LogEntry struct {
	TS    string
	Level string
	Msg   string
	Extra map[string]json.RawMessage
}

func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	str := func(key string) string {
		var s string
		if v, ok := raw[key]; ok && json.Unmarshal(v, &s) == nil {
			delete(raw, key)
		}
		return s
	}
	e.TS = str("ts")
	e.Level = str("lvl")
	e.Msg = str("msg")
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

// Logs returns up to limit recent entries, oldest first. Admin only.
func (c *Client) Logs(ctx context.Context, limit int) ([]LogEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var res struct {
		Logs []LogEntry `json:"logs"`
	}
	if err := c.getJSON(ctx, "/api/logs", q, "could not load logs", &res); err != nil {
		return nil, err
	}
	return res.Logs, nil
}

// ToolStatus is a version/status pair for an external tool the backend
// depends on.
type ToolStatus struct {
	Status          string `json:"status"`
	Version         string `json:"version,omitempty"`
	Latest          string `json:"latest,omitempty"`
	UpdateAvailable bool   `json:"updateAvailable,omitempty"`
	Detail          string `json:"detail,omitempty"`
}

// LogSummary counts recent errors and warnings.
type LogSummary struct {
	Error   int `json:"error"`
	Warning int `json:"warning"`
}

// AdminData is the dashboard section only admins receive.
type AdminData struct {
	TotalUsers     int        `json:"totalUsers"`
	DownloaderTool ToolStatus `json:"ytDlpStatus"`
	TranscoderTool ToolStatus `json:"ffmpegStatus"`
	CookiesStatus  ToolStatus `json:"cookiesStatus"`
	SyncStatus     ToolStatus `json:"syncthingStatus"`
	LogSummary     LogSummary `json:"logSummary"`
}

// Dashboard is the aggregate read-model for the landing view. Computed
// entirely server-side; the client redraws it wholesale on each poll.
type Dashboard struct {
	UserID      string     `json:"userId"`
	SongCount   int        `json:"songCount"`
	QueueSize   int        `json:"queueSize"`
	RecentSongs []Song     `json:"recentSongs"`
	AdminData   *AdminData `json:"adminData,omitempty"`
}

func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := c.getJSON(ctx, "/api/dashboard", nil, "could not load dashboard", &d)
	return d, err
}
