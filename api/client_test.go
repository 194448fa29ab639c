package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
)

// newTestBackend wires a chi router the way the real backend routes its API
// and returns a client pointed at it.
func newTestBackend(t *testing.T, mount func(r chi.Router)) *Client {
	t.Helper()
	r := chi.NewRouter()
	mount(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestErrorDetailParsing(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"backend detail", 404, `{"detail": "song not found"}`, "song not found"},
		{"empty detail falls back", 400, `{"detail": ""}`, "could not load songs"},
		{"non-json falls back", 500, "internal server error", "could not load songs"},
		{"wrong shape falls back", 422, `{"error": "nope"}`, "could not load songs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestBackend(t, func(r chi.Router) {
				r.Get("/api/songs", func(w http.ResponseWriter, req *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				})
			})

			_, err := c.Songs(context.Background(), "1")
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("want *Error, got %v", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", apiErr.Detail, tt.wantDetail)
			}
		})
	}
}

func TestDeleteSongSelector(t *testing.T) {
	var gotQuery url.Values
	c := newTestBackend(t, func(r chi.Router) {
		r.Delete("/api/songs", func(w http.ResponseWriter, req *http.Request) {
			gotQuery = req.URL.Query()
			writeJSON(w, 200, DeleteResult{Removed: 1})
		})
	})

	// ID wins even when title and artist are also set.
	_, err := c.DeleteSong(context.Background(), "7", SongRef{ID: "abc", Title: "T", Artist: "A"})
	if err != nil {
		t.Fatalf("DeleteSong by id: %v", err)
	}
	if gotQuery.Get("id") != "abc" {
		t.Errorf("id = %q, want %q", gotQuery.Get("id"), "abc")
	}
	if gotQuery.Has("title") || gotQuery.Has("artist") {
		t.Errorf("id selector must not also send title/artist, got %v", gotQuery)
	}
	if gotQuery.Get("user_id") != "7" {
		t.Errorf("user_id = %q, want %q", gotQuery.Get("user_id"), "7")
	}

	// Without an ID both title and artist are required.
	_, err = c.DeleteSong(context.Background(), "7", SongRef{Title: "T", Artist: "A"})
	if err != nil {
		t.Fatalf("DeleteSong by title+artist: %v", err)
	}
	if gotQuery.Get("title") != "T" || gotQuery.Get("artist") != "A" {
		t.Errorf("title/artist query = %v", gotQuery)
	}

	gotQuery = nil
	if _, err := c.DeleteSong(context.Background(), "7", SongRef{Title: "T"}); err == nil {
		t.Fatal("incomplete ref must fail before the request is sent")
	}
	if gotQuery != nil {
		t.Error("incomplete ref still reached the backend")
	}
}

func TestRedownloadForce(t *testing.T) {
	var gotForce string
	c := newTestBackend(t, func(r chi.Router) {
		r.Post("/api/redownload", func(w http.ResponseWriter, req *http.Request) {
			gotForce = req.URL.Query().Get("force")
			writeJSON(w, 200, RedownloadResult{Queued: 1, Forced: gotForce == "true"})
		})
	})

	res, err := c.Redownload(context.Background(), "1", SongRef{ID: "x"}, true)
	if err != nil {
		t.Fatalf("Redownload: %v", err)
	}
	if gotForce != "true" || !res.Forced {
		t.Errorf("force = %q, forced = %v", gotForce, res.Forced)
	}

	if _, err := c.Redownload(context.Background(), "1", SongRef{ID: "x"}, false); err != nil {
		t.Fatalf("Redownload: %v", err)
	}
	if gotForce != "false" {
		t.Errorf("force = %q, want %q", gotForce, "false")
	}
}

func TestQueueRemoveVsClear(t *testing.T) {
	type call struct {
		hasBody bool
		urls    []string
	}
	var calls []call
	c := newTestBackend(t, func(r chi.Router) {
		r.Delete("/api/queue", func(w http.ResponseWriter, req *http.Request) {
			var payload struct {
				URLs []string `json:"urls"`
			}
			err := json.NewDecoder(req.Body).Decode(&payload)
			calls = append(calls, call{hasBody: err == nil, urls: payload.URLs})
			w.WriteHeader(200)
		})
	})

	ctx := context.Background()
	if err := c.QueueRemove(ctx, "1", []string{"https://a", "https://b"}); err != nil {
		t.Fatalf("QueueRemove: %v", err)
	}
	if err := c.QueueClear(ctx, "1"); err != nil {
		t.Fatalf("QueueClear: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if !calls[0].hasBody || len(calls[0].urls) != 2 {
		t.Errorf("remove call = %+v, want json body with 2 urls", calls[0])
	}
	// A clear is a bodyless delete, not an empty url list.
	if calls[1].hasBody {
		t.Errorf("clear call carried a body: %+v", calls[1])
	}

	// Removing nothing must stay a no-op; the backend reads a missing url
	// list as a full clear.
	if err := c.QueueRemove(ctx, "1", nil); err != nil {
		t.Fatalf("QueueRemove empty: %v", err)
	}
	if err := c.QueueRemove(ctx, "1", []string{}); err != nil {
		t.Fatalf("QueueRemove empty slice: %v", err)
	}
	if err := c.QueueAdd(ctx, "1", nil); err != nil {
		t.Fatalf("QueueAdd empty: %v", err)
	}
	if len(calls) != 2 {
		t.Errorf("empty-list mutation reached the backend: %d calls", len(calls))
	}
}

func TestLoginSendsForm(t *testing.T) {
	c := newTestBackend(t, func(r chi.Router) {
		r.Post("/api/login", func(w http.ResponseWriter, req *http.Request) {
			if ct := req.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Errorf("content type = %q", ct)
			}
			if err := req.ParseForm(); err != nil {
				t.Fatalf("ParseForm: %v", err)
			}
			if req.PostFormValue("username") != "alice" || req.PostFormValue("password") != "hunter22" {
				t.Errorf("form = %v", req.PostForm)
			}
			http.SetCookie(w, &http.Cookie{Name: "ytnd_uid", Value: "3"})
			writeJSON(w, 200, LoginResult{Success: true, UserID: "3"})
		})
	})

	res, err := c.Login(context.Background(), "alice", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.Success || res.UserID != "3" {
		t.Errorf("result = %+v", res)
	}
}

func TestCSRFRetryOnStaleToken(t *testing.T) {
	tokens := []string{"tok-old", "tok-new"}
	tokenCalls := 0
	var postTokens []string

	c := newTestBackend(t, func(r chi.Router) {
		r.Get("/api/csrf-token", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, 200, map[string]string{"csrfToken": tokens[tokenCalls]})
			tokenCalls++
		})
		r.Post("/api/profile/credentials", func(w http.ResponseWriter, req *http.Request) {
			req.ParseForm()
			tok := req.PostFormValue("csrf_token")
			postTokens = append(postTokens, tok)
			if tok != "tok-new" {
				writeJSON(w, 403, map[string]string{"detail": "csrf token mismatch"})
				return
			}
			w.WriteHeader(200)
		})
	})

	if err := c.SetCredentials(context.Background(), "bob", "password123"); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}
	if tokenCalls != 2 {
		t.Errorf("token fetched %d times, want 2", tokenCalls)
	}
	if len(postTokens) != 2 || postTokens[0] != "tok-old" || postTokens[1] != "tok-new" {
		t.Errorf("post tokens = %v", postTokens)
	}
}

func TestCSRFTokenCached(t *testing.T) {
	tokenCalls := 0
	c := newTestBackend(t, func(r chi.Router) {
		r.Get("/api/csrf-token", func(w http.ResponseWriter, req *http.Request) {
			tokenCalls++
			writeJSON(w, 200, map[string]string{"csrfToken": "tok"})
		})
		r.Post("/api/profile/password", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(200)
		})
	})

	ctx := context.Background()
	if err := c.UpdatePassword(ctx, "old-secret", "new-secret-1"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if err := c.UpdatePassword(ctx, "old-secret", "new-secret-2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if tokenCalls != 1 {
		t.Errorf("token fetched %d times, want 1", tokenCalls)
	}
}

func TestSessionCookiesCarryOver(t *testing.T) {
	c := newTestBackend(t, func(r chi.Router) {
		r.Post("/api/login", func(w http.ResponseWriter, req *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "ytnd_uid", Value: "5", Path: "/"})
			http.SetCookie(w, &http.Cookie{Name: "ytnd_sig", Value: "sig", Path: "/"})
			writeJSON(w, 200, LoginResult{Success: true, UserID: "5"})
		})
		r.Get("/api/profile", func(w http.ResponseWriter, req *http.Request) {
			if uid, err := req.Cookie("ytnd_uid"); err != nil || uid.Value != "5" {
				writeJSON(w, 401, map[string]string{"detail": "not authenticated"})
				return
			}
			writeJSON(w, 200, Profile{UID: "5", Username: "eve", Role: "user"})
		})
	})

	ctx := context.Background()
	if _, err := c.Login(ctx, "eve", "password"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	p, err := c.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.UID != "5" || p.IsAdmin() {
		t.Errorf("profile = %+v", p)
	}
}

func TestDashboardAdminData(t *testing.T) {
	c := newTestBackend(t, func(r chi.Router) {
		r.Get("/api/dashboard", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{
				"userId": "1", "songCount": 12, "queueSize": 3,
				"recentSongs": [{"title": "One", "artist": "A", "file_available": true}],
				"adminData": {
					"totalUsers": 4,
					"ytDlpStatus": {"status": "ok", "version": "2026.08.10"},
					"ffmpegStatus": {"status": "ok", "version": "7.1"},
					"cookiesStatus": {"status": "present"},
					"syncthingStatus": {"status": "stopped"},
					"logSummary": {"error": 1, "warning": 2}
				}
			}`))
		})
	})

	d, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.SongCount != 12 || d.QueueSize != 3 || len(d.RecentSongs) != 1 {
		t.Errorf("dashboard = %+v", d)
	}
	if d.AdminData == nil {
		t.Fatal("adminData missing")
	}
	if d.AdminData.TotalUsers != 4 || d.AdminData.DownloaderTool.Status != "ok" {
		t.Errorf("adminData = %+v", d.AdminData)
	}
	if d.AdminData.LogSummary.Error != 1 || d.AdminData.LogSummary.Warning != 2 {
		t.Errorf("logSummary = %+v", d.AdminData.LogSummary)
	}
}

func TestDashboardWithoutAdminData(t *testing.T) {
	c := newTestBackend(t, func(r chi.Router) {
		r.Get("/api/dashboard", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"userId": "2", "songCount": 0, "queueSize": 0, "recentSongs": []}`))
		})
	})

	d, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.AdminData != nil {
		t.Errorf("non-admin snapshot should have nil adminData, got %+v", d.AdminData)
	}
}

func TestLogEntryExtraFields(t *testing.T) {
	c := newTestBackend(t, func(r chi.Router) {
		r.Get("/api/logs", func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Query().Get("limit") != "50" {
				t.Errorf("limit = %q", req.URL.Query().Get("limit"))
			}
			w.Write([]byte(`{"logs": [
				{"ts": "2026-08-29T10:00:00Z", "lvl": "error", "msg": "download failed", "url": "https://x", "attempt": 3}
			]}`))
		})
	})

	logs, err := c.Logs(context.Background(), 50)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d entries", len(logs))
	}
	e := logs[0]
	if e.Level != "error" || e.Msg != "download failed" {
		t.Errorf("entry = %+v", e)
	}
	if _, ok := e.Extra["url"]; !ok {
		t.Errorf("extra fields lost: %v", e.Extra)
	}
	if _, ok := e.Extra["msg"]; ok {
		t.Error("core field leaked into extras")
	}
}

func TestDirectURLBuilders(t *testing.T) {
	c, err := New("http://backend:8080/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := c.DownloadURL("7", "Nightcall # Kavinsky.mp3")
	want := "http://backend:8080/api/download?filename=Nightcall+%23+Kavinsky.mp3&user_id=7"
	if got != want {
		t.Errorf("DownloadURL = %q, want %q", got, want)
	}

	// A stored cover filename is preferred over the song id.
	withCover := c.CoverURL("7", Song{ID: "x", Cover: "cover.jpg"})
	if withCover != "http://backend:8080/api/cover?filename=cover.jpg&user_id=7" {
		t.Errorf("CoverURL with filename = %q", withCover)
	}
	byID := c.CoverURL("7", Song{ID: "x"})
	if byID != "http://backend:8080/api/cover?id=x&user_id=7" {
		t.Errorf("CoverURL by id = %q", byID)
	}

	if c.LogoutURL() != "http://backend:8080/auth/logout" {
		t.Errorf("LogoutURL = %q", c.LogoutURL())
	}
}

func TestMalformedBody(t *testing.T) {
	c := newTestBackend(t, func(r chi.Router) {
		r.Get("/api/ping", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		})
	})

	_, err := c.Ping(context.Background())
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("want ErrBadResponse, got %v", err)
	}
	if StatusOf(err) != 0 {
		t.Errorf("decode failure should not carry a status, got %d", StatusOf(err))
	}
}

func TestUsersEndpoints(t *testing.T) {
	var created struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	var putPath, deletePath string

	c := newTestBackend(t, func(r chi.Router) {
		r.Get("/api/users", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, 200, map[string]any{"users": []string{"1", "2"}})
		})
		r.Get("/api/users/detailed", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, 200, map[string]any{"users": []User{{ID: "1", Role: "admin"}, {ID: "2", Role: "user"}}})
		})
		r.Post("/api/users", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&created)
			w.WriteHeader(201)
		})
		r.Put("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			putPath = req.URL.Path
			w.WriteHeader(200)
		})
		r.Delete("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			deletePath = req.URL.Path
			w.WriteHeader(200)
		})
	})

	ctx := context.Background()

	ids, err := c.Users(ctx)
	if err != nil || len(ids) != 2 {
		t.Fatalf("Users: %v %v", ids, err)
	}
	detailed, err := c.UsersDetailed(ctx)
	if err != nil || len(detailed) != 2 || detailed[0].Role != "admin" {
		t.Fatalf("UsersDetailed: %+v %v", detailed, err)
	}

	if err := c.CreateUser(ctx, "9", "user"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID != "9" || created.Role != "user" {
		t.Errorf("create payload = %+v", created)
	}

	if err := c.UpdateUserRole(ctx, "9", "admin"); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if putPath != "/api/users/9" {
		t.Errorf("put path = %q", putPath)
	}

	if err := c.DeleteUser(ctx, "9"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if deletePath != "/api/users/9" {
		t.Errorf("delete path = %q", deletePath)
	}
}
