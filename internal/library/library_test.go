package library

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"stoicbot/internal/cache"
	"stoicbot/internal/config"
	"stoicbot/internal/extract"
	"stoicbot/internal/index"
)

const bookText = `January 1st
CONTROL AND CHOICE
“The chief task in life
is simply this.”
—EPICTETUS, DISCOURSES, 2.5.4–5
The single most important practice
is differentiating what we control.

January 2nd
EDUCATION IS FREEDOM
“What is the fruit of these teachings?”
—EPICTETUS, DISCOURSES, 1.4.32
An education is freedom from ignorance.
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{
		MaxPages:         100,
		MaxDocumentBytes: 1 << 20,
		MinTopicLength:   3,
	}
}

func writeBook(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLibrary_ReloadAndQuery(t *testing.T) {
	lib := New(testConfig(), nil, testLogger())
	path := writeBook(t, bookText)

	if err := lib.Reload(path); err != nil {
		t.Fatalf("reload: %v", err)
	}

	e, err := lib.EntryByDate("January 1")
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if e.Title != "CONTROL AND CHOICE" {
		t.Errorf("expected title %q, got %q", "CONTROL AND CHOICE", e.Title)
	}

	entries, err := lib.SearchTopic("education")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(entries) != 1 || entries[0].DateLabel != "January 2" {
		t.Errorf("expected the January 2 entry, got %v", entries)
	}

	entries, err = lib.SearchTopic("xyznotaword")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty result, got %v", entries)
	}

	stats := lib.Stats()
	if stats.Entries != 2 {
		t.Errorf("expected 2 entries in stats, got %d", stats.Entries)
	}
	if stats.FromCache {
		t.Errorf("first parse should not come from cache")
	}
	if stats.ContentHash == "" {
		t.Errorf("expected content hash recorded")
	}
}

func TestLibrary_QueriesBeforeLoad(t *testing.T) {
	lib := New(testConfig(), nil, testLogger())

	if _, err := lib.EntryByDate("January 1"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := lib.SearchTopic("anything"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestLibrary_TodayEntry(t *testing.T) {
	now := time.Now()
	text := now.Format("January 2") + "\nA TITLE FOR TODAY\nBody for today's entry.\n"
	lib := New(testConfig(), nil, testLogger())

	if err := lib.Reload(writeBook(t, text)); err != nil {
		t.Fatalf("reload: %v", err)
	}

	e, err := lib.TodayEntry(now)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if e.Title != "A TITLE FOR TODAY" {
		t.Errorf("expected today's entry, got %+v", e)
	}

	// A date with no entry is NotFound, not an empty result.
	_, err = lib.TodayEntry(now.AddDate(0, 0, 1))
	if !errors.Is(err, index.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing date, got %v", err)
	}
}

func TestLibrary_FailedReloadKeepsCollection(t *testing.T) {
	lib := New(testConfig(), nil, testLogger())
	path := writeBook(t, bookText)

	if err := lib.Reload(path); err != nil {
		t.Fatalf("reload: %v", err)
	}

	err := lib.Reload(filepath.Join(t.TempDir(), "missing.txt"))
	var exErr *extract.ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}

	// Previous collection still serves queries.
	if _, err := lib.EntryByDate("January 1"); err != nil {
		t.Errorf("previous collection lost after failed reload: %v", err)
	}
}

func TestLibrary_OversizedDocumentRejected(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDocumentBytes = 8
	lib := New(cfg, nil, testLogger())

	err := lib.Reload(writeBook(t, bookText))
	var exErr *extract.ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected ExtractionError for oversized document, got %v", err)
	}
}

func TestLibrary_CacheWarmStart(t *testing.T) {
	store, err := cache.NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer store.Close()

	// Leading matter produces a warning so the warm start has one to keep.
	path := writeBook(t, "Translator's introduction.\n\n"+bookText)

	lib := New(testConfig(), store, testLogger())
	if err := lib.Reload(path); err != nil {
		t.Fatalf("first reload: %v", err)
	}
	fresh := lib.Stats()
	if fresh.FromCache {
		t.Fatalf("first parse unexpectedly from cache")
	}
	if fresh.Pages != 1 || len(fresh.Warnings) != 1 {
		t.Fatalf("fixture expectations off: %+v", fresh)
	}

	// A fresh library sharing the store skips re-parsing the same bytes.
	lib2 := New(testConfig(), store, testLogger())
	if err := lib2.Reload(path); err != nil {
		t.Fatalf("second reload: %v", err)
	}
	warm := lib2.Stats()
	if !warm.FromCache {
		t.Errorf("expected warm start from cache")
	}

	// Run-level figures survive the restart.
	if warm.Pages != fresh.Pages {
		t.Errorf("expected %d pages after warm start, got %d", fresh.Pages, warm.Pages)
	}
	if !reflect.DeepEqual(warm.Warnings, fresh.Warnings) {
		t.Errorf("expected warnings %v after warm start, got %v", fresh.Warnings, warm.Warnings)
	}

	// Cached and fresh parses answer queries identically.
	a, err := lib.EntryByDate("January 2")
	if err != nil {
		t.Fatalf("fresh lookup: %v", err)
	}
	b, err := lib2.EntryByDate("January 2")
	if err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	if a.Body != b.Body || a.Title != b.Title {
		t.Errorf("cached entry differs from fresh parse")
	}
}
