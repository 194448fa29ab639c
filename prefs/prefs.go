// Package prefs persists client-local preferences across runs: the theme
// toggle, the listing page size, and the last selected user scope. Nothing
// in here is authoritative; the backend never sees it.
package prefs

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const (
	keyDarkMode = "dark_mode"
	keyPageSize = "page_size"
	keyLastUser = "last_user"

	DefaultPageSize = 10
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the preferences database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection; the caller owns migration. Used by
// tests.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
    CREATE TABLE IF NOT EXISTS prefs (
        key   TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// DarkMode reads the theme toggle, defaulting to dark.
func (s *Store) DarkMode() (bool, error) {
	v, ok, err := s.get(keyDarkMode)
	if err != nil || !ok {
		return true, err
	}
	return v == "1", nil
}

func (s *Store) SetDarkMode(on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return s.set(keyDarkMode, v)
}

// PageSize reads the listing page size, falling back to the default for
// missing or garbage values.
func (s *Store) PageSize() (int, error) {
	v, ok, err := s.get(keyPageSize)
	if err != nil || !ok {
		return DefaultPageSize, err
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil || n < 1 {
		return DefaultPageSize, nil
	}
	return n, nil
}

func (s *Store) SetPageSize(n int) error {
	return s.set(keyPageSize, strconv.Itoa(n))
}

// LastUser remembers the user scope an admin had selected.
func (s *Store) LastUser() (string, error) {
	v, _, err := s.get(keyLastUser)
	return v, err
}

func (s *Store) SetLastUser(id string) error {
	return s.set(keyLastUser, id)
}
