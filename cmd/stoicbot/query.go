package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stoicbot/internal/index"
	"stoicbot/internal/segment"
)

var (
	queryDate  bool
	queryToday bool
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [term]",
	Short: "Look up entries by topic or date",
	Long: `Searches the parsed book by topic keyword, or by exact date label
with --date (e.g. "January 1"). --today uses the current date.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryDate, "date", false, "treat the term as a date label")
	queryCmd.Flags().BoolVar(&queryToday, "today", false, "look up today's entry")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if !queryToday && len(args) != 1 {
		return errors.New("a term is required unless --today is set")
	}

	log := newLogger(false, os.Stderr)

	cfg, err := loadConfig()
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

	switch {
	case queryToday:
		entry, err := lib.TodayEntry(time.Now())
		if err != nil {
			return describeNotFound(err, "today")
		}
		return printEntries(cmd, []segment.Entry{entry})
	case queryDate:
		entry, err := lib.EntryByDate(args[0])
		if err != nil {
			return describeNotFound(err, args[0])
		}
		return printEntries(cmd, []segment.Entry{entry})
	default:
		entries, err := lib.SearchTopic(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No entries match that topic.")
			return nil
		}
		return printEntries(cmd, entries)
	}
}

func describeNotFound(err error, label string) error {
	if errors.Is(err, index.ErrNotFound) {
		return fmt.Errorf("no entry for %s", label)
	}
	return err
}

func printEntries(cmd *cobra.Command, entries []segment.Entry) error {
	if queryJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, e := range entries {
		label := e.DateLabel
		if label == "" {
			label = "(undated)"
		}
		cmd.Printf("%s — %s\n", label, e.Title)
		if e.Quote != "" {
			cmd.Printf("  %s\n", e.Quote)
		}
		if e.QuoteSource != "" {
			cmd.Printf("  %s\n", e.QuoteSource)
		}
		cmd.Println()
	}
	return nil
}
