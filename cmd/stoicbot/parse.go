package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stoicbot/internal/config"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a book and report the extracted entries",
	Long: `Parses the given document (or BOOK_PATH when omitted), prints a
summary of the run, and warms the entry cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "dump all entries as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	log := newLogger(false, os.Stderr)

	cfg, err := loadConfigOrPath(args)
	if err != nil {
		return err
	}

	lib, closeLib, err := buildLibrary(cfg, log, true)
	if err != nil {
		return err
	}
	defer closeLib()

	if err := lib.Reload(cfg.BookPath); err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if parseJSON {
		col, _ := lib.Collection()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(col.Entries())
	}

	stats := lib.Stats()
	cmd.Printf("parsed %s\n", cfg.BookPath)
	cmd.Printf("  pages:    %d\n", stats.Pages)
	cmd.Printf("  entries:  %d\n", stats.Entries)
	cmd.Printf("  topics:   %d\n", stats.Topics)
	cmd.Printf("  warnings: %d\n", len(stats.Warnings))
	for _, w := range stats.Warnings {
		cmd.Printf("    - %s\n", w)
	}
	return nil
}

// loadConfigOrPath lets a positional file argument stand in for
// BOOK_PATH.
func loadConfigOrPath(args []string) (config.Config, error) {
	cfg := config.Load()
	if len(args) == 1 {
		cfg.BookPath = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
