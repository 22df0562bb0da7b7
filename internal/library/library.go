// Package library owns the currently published EntryCollection. A parse
// run is a single synchronous unit of work; its result is published with
// an atomic pointer swap so in-flight queries always see a complete
// collection, and a failed run leaves the previous one in place.
package library

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"stoicbot/internal/cache"
	"stoicbot/internal/config"
	"stoicbot/internal/extract"
	"stoicbot/internal/index"
	"stoicbot/internal/segment"
)

// ErrNotLoaded is returned by queries before any document has been
// parsed successfully.
var ErrNotLoaded = errors.New("no collection loaded")

// Library is the query surface callers (chat integration, scheduler)
// talk to.
type Library struct {
	limits extract.Limits
	window extract.Window
	opts   segment.Options
	store  *cache.Store // nil disables caching
	log    *slog.Logger

	current atomic.Pointer[index.EntryCollection]

	mu       sync.Mutex // guards stats
	stats    ParseStats
	reloadMu sync.Mutex // serializes reloads
}

// New builds a Library from configuration. The cache store may be nil.
func New(cfg config.Config, store *cache.Store, log *slog.Logger) *Library {
	return &Library{
		limits: extract.Limits{
			MaxPages: cfg.MaxPages,
			MaxBytes: cfg.MaxDocumentBytes,
		},
		window: extract.Window{
			First: cfg.FirstPage,
			Last:  cfg.LastPage,
			Skip:  cfg.SkipPages,
		},
		opts: segment.Options{
			StopWords:      loadStopWords(cfg.StopwordsFile, log),
			MinTopicLength: cfg.MinTopicLength,
			Stem:           cfg.StemTopics,
		},
		store: store,
		log:   log,
	}
}

// Reload parses the document at path and atomically publishes the
// result. On any failure the previously published collection stays
// available.
func (l *Library) Reload(path string) error {
	l.reloadMu.Lock()
	defer l.reloadMu.Unlock()

	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return &extract.ExtractionError{Doc: path, Err: err}
	}
	if l.limits.MaxBytes > 0 && int64(len(data)) > l.limits.MaxBytes {
		return &extract.ExtractionError{
			Doc: path,
			Err: fmt.Errorf("document is %d bytes, limit is %d", len(data), l.limits.MaxBytes),
		}
	}
	hash := contentHashHex(data)

	if cached, ok := l.loadCached(hash); ok {
		l.publish(cached.Entries, cached.Warnings, hash, cached.Pages, true, start)
		return nil
	}

	pages, err := extract.File(path, l.limits, l.window)
	if err != nil {
		return err
	}

	entries, segWarnings := segment.Segment(pages, l.opts)
	var warnings []string
	for _, w := range segWarnings {
		warnings = append(warnings, w.String())
	}

	l.publish(entries, warnings, hash, len(pages), false, start)
	l.saveCache(hash, cache.Parse{Entries: entries, Pages: len(pages), Warnings: warnings})
	return nil
}

// publish builds the collection, swaps it in, and records stats.
func (l *Library) publish(entries []segment.Entry, warnings []string, hash string, pages int, fromCache bool, start time.Time) {
	col := index.Build(entries)
	l.current.Store(col)

	stats := ParseStats{
		Pages:       pages,
		Entries:     col.Len(),
		Topics:      col.Topics(),
		Warnings:    warnings,
		ContentHash: hash,
		FromCache:   fromCache,
		ParsedAt:    time.Now().UTC(),
		DurationMS:  time.Since(start).Milliseconds(),
	}

	l.mu.Lock()
	l.stats = stats
	l.mu.Unlock()

	l.log.Info("collection published",
		"entries", stats.Entries,
		"topics", stats.Topics,
		"warnings", len(stats.Warnings),
		"from_cache", fromCache,
	)
}

func (l *Library) loadCached(hash string) (cache.Parse, bool) {
	if l.store == nil {
		return cache.Parse{}, false
	}
	parse, ok, err := l.store.Load(hash)
	if err != nil {
		l.log.Warn("cache load failed, re-parsing", "error", err)
		return cache.Parse{}, false
	}
	return parse, ok
}

func (l *Library) saveCache(hash string, p cache.Parse) {
	if l.store == nil {
		return
	}
	if err := l.store.Save(hash, p); err != nil {
		l.log.Warn("cache save failed", "error", err)
	}
}

// Collection returns the published collection, or false before the
// first successful parse.
func (l *Library) Collection() (*index.EntryCollection, bool) {
	col := l.current.Load()
	return col, col != nil
}

// TodayEntry returns the entry for the supplied current time,
// propagating index.ErrNotFound when the date has no entry.
func (l *Library) TodayEntry(now time.Time) (segment.Entry, error) {
	return l.EntryByDate(now.Format("January 2"))
}

// EntryByDate looks up an entry by exact date label.
func (l *Library) EntryByDate(label string) (segment.Entry, error) {
	col, ok := l.Collection()
	if !ok {
		return segment.Entry{}, ErrNotLoaded
	}
	return col.ByDate(label)
}

// SearchTopic returns entries matching a topic term in document order;
// an empty result is not an error.
func (l *Library) SearchTopic(term string) ([]segment.Entry, error) {
	col, ok := l.Collection()
	if !ok {
		return nil, ErrNotLoaded
	}
	return col.ByTopic(term), nil
}

// Stats reports the most recent successful parse run.
func (l *Library) Stats() ParseStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

func contentHashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// loadStopWords reads a newline-separated stop-word file, falling back
// to the built-in list.
func loadStopWords(path string, log *slog.Logger) map[string]bool {
	if path == "" {
		return nil // segment applies its defaults
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("stopwords file unreadable, using defaults", "path", path, "error", err)
		return nil
	}
	words := make(map[string]bool)
	for _, w := range segment.Tokenize(string(data)) {
		words[w] = true
	}
	if len(words) == 0 {
		return nil
	}
	return words
}
