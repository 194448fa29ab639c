package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tunedeck/api"
	"tunedeck/config"
	"tunedeck/prefs"
	"tunedeck/query"
	"tunedeck/session"
	"tunedeck/ui"
)

func main() {
	cfg := config.Load()

	closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := prefs.Open(cfg.PrefsPath())
	if err != nil {
		log.Error().Err(err).Str("path", cfg.PrefsPath()).Msg("could not open preferences")
		fmt.Fprintln(os.Stderr, "preferences:", err)
		os.Exit(1)
	}
	defer store.Close()

	client, err := api.New(cfg.ServerURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "backend:", err)
		os.Exit(1)
	}

	res := query.NewResources(client)
	gate := session.New(client)

	log.Info().Str("server", cfg.ServerURL).Msg("starting")
	if err := ui.Run(ui.NewApp(cfg, gate, res, store)); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends structured logs to a file so they never fight the
// terminal UI for the screen.
func setupLogging(cfg config.Config) (func(), error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	path := cfg.LogFile
	if path == "" {
		path = filepath.Join(cfg.DataDir, "tunedeck.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }, nil
}
