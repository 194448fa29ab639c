package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tunedeck/api"
	"tunedeck/session"
)

func resolvedGate(t *testing.T, role string) *session.Gate {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(map[string]bool{"authorized": true})
	})
	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(api.Profile{UID: "1", Username: "alice", Role: role})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	gate := session.New(client)
	if _, err := gate.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return gate
}

func hasSection(secs []Section, sec Section) bool {
	for _, s := range secs {
		if s == sec {
			return true
		}
	}
	return false
}

func TestSectionsGatedByRole(t *testing.T) {
	tests := []struct {
		role      string
		wantAdmin bool
	}{
		{"admin", true},
		{"user", false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			a := App{gate: resolvedGate(t, tt.role)}
			secs := a.sections()

			if got := hasSection(secs, secUsers); got != tt.wantAdmin {
				t.Errorf("users section visible = %v, want %v", got, tt.wantAdmin)
			}
			if got := hasSection(secs, secLogs); got != tt.wantAdmin {
				t.Errorf("logs section visible = %v, want %v", got, tt.wantAdmin)
			}
			for _, sec := range []Section{secDashboard, secSongs, secQueue, secProfile} {
				if !hasSection(secs, sec) {
					t.Errorf("section %s missing", sectionNames[sec])
				}
			}
		})
	}
}

func TestCycleSectionSkipsAdminTabs(t *testing.T) {
	a := App{gate: resolvedGate(t, "user")}

	// Walk one full lap from the dashboard; admin tabs must never come up.
	a.section = secDashboard
	seen := map[Section]bool{secDashboard: true}
	for range a.sections() {
		a.section = a.nextSection(1)
		seen[a.section] = true
	}

	if seen[secUsers] || seen[secLogs] {
		t.Errorf("non-admin lap reached admin tabs: %v", seen)
	}
	for _, sec := range []Section{secDashboard, secSongs, secQueue, secProfile} {
		if !seen[sec] {
			t.Errorf("lap never reached %s", sectionNames[sec])
		}
	}
}
