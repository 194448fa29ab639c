// Package config loads runtime configuration from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL string // backend base URL
	DataDir   string // prefs database and fetched media live here
	MediaDir  string // destination for fetched media files
	LogFile   string
	LogLevel  string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the environment. A missing .env file is not an error; the
// variables may come from the shell.
func Load() Config {
	_ = godotenv.Load()

	dataDir := getenv("TUNEDECK_DATA_DIR", defaultDataDir())
	return Config{
		ServerURL: getenv("TUNEDECK_SERVER", "http://127.0.0.1:8080"),
		DataDir:   dataDir,
		MediaDir:  getenv("TUNEDECK_MEDIA_DIR", filepath.Join(dataDir, "media")),
		LogFile:   getenv("TUNEDECK_LOG_FILE", filepath.Join(dataDir, "tunedeck.log")),
		LogLevel:  getenv("TUNEDECK_LOG_LEVEL", "info"),
	}
}

// PrefsPath is the SQLite file holding local preferences.
func (c Config) PrefsPath() string {
	return filepath.Join(c.DataDir, "tunedeck.db")
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".tunedeck"
	}
	return filepath.Join(base, "tunedeck")
}
