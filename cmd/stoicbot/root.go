package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"stoicbot/internal/cache"
	"stoicbot/internal/config"
	"stoicbot/internal/library"
)

var rootCmd = &cobra.Command{
	Use:   "stoicbot",
	Short: "Daily Stoic entry extraction and topic search",
	Long: `stoicbot parses a Daily Stoic style book into per-day entries,
indexes them by date and topic, and serves them over HTTP or the CLI.
Configuration comes from environment variables (BOOK_PATH, PORT, ...).`,
	SilenceUsage: true,
}

// newLogger returns a JSON slog logger for the server and a text one
// for interactive commands.
func newLogger(json bool, w io.Writer) *slog.Logger {
	if json {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// buildLibrary wires config, cache and library together. The returned
// close func releases the cache store.
func buildLibrary(cfg config.Config, log *slog.Logger, withCache bool) (*library.Library, func(), error) {
	var store *cache.Store
	closeFn := func() {}

	if withCache && cfg.CachePath != "" {
		s, err := cache.NewStore(cfg.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		store = s
		closeFn = func() { store.Close() }
	}

	return library.New(cfg, store, log), closeFn, nil
}

func loadConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}
