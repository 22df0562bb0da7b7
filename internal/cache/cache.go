// Package cache persists parsed entries so a restart can skip
// re-parsing an unchanged document. The stored shape mirrors the
// collection records; the in-memory indexes are always rebuilt from it.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"stoicbot/internal/segment"
)

// Store is a SQLite-backed entry cache keyed by document content hash.
type Store struct {
	db   *sql.DB
	path string
}

// Parse is one cached parse run: the entries plus the run-level figures
// stats reporting needs to survive a restart.
type Parse struct {
	Entries  []segment.Entry
	Pages    int
	Warnings []string
}

const schema = `
CREATE TABLE IF NOT EXISTS parses (
	content_hash TEXT    PRIMARY KEY,
	parsed_at    TEXT    NOT NULL,
	pages        INTEGER NOT NULL,
	warnings     TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	content_hash TEXT    NOT NULL,
	id           INTEGER NOT NULL,
	date_label   TEXT    NOT NULL,
	title        TEXT    NOT NULL,
	quote        TEXT    NOT NULL,
	quote_source TEXT    NOT NULL,
	body         TEXT    NOT NULL,
	topics       TEXT    NOT NULL,
	page         INTEGER NOT NULL,
	PRIMARY KEY (content_hash, id)
);
`

// NewStore opens (or creates) the cache database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save replaces the cached parse with the given one. Only the latest
// parse is retained.
func (s *Store) Save(contentHash string, p Parse) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear cached entries: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM parses`); err != nil {
		return fmt.Errorf("clear cached parses: %w", err)
	}

	warnings, err := json.Marshal(p.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO parses (content_hash, parsed_at, pages, warnings) VALUES (?, ?, ?, ?)`,
		contentHash, time.Now().UTC().Format(time.RFC3339), p.Pages, string(warnings),
	); err != nil {
		return fmt.Errorf("record parse: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (content_hash, id, date_label, title, quote, quote_source, body, topics, page)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range p.Entries {
		topics, err := json.Marshal(e.Topics)
		if err != nil {
			return fmt.Errorf("marshal topics for entry %d: %w", e.ID, err)
		}
		if _, err := stmt.Exec(
			contentHash, e.ID, e.DateLabel, e.Title, e.Quote, e.QuoteSource, e.Body, string(topics), e.Page,
		); err != nil {
			return fmt.Errorf("insert entry %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// Load returns the cached parse for a content hash, entries in document
// order. The second return is false when no parse with that hash is
// cached.
func (s *Store) Load(contentHash string) (Parse, bool, error) {
	var p Parse
	var warnings string
	err := s.db.QueryRow(
		`SELECT pages, warnings FROM parses WHERE content_hash = ?`, contentHash,
	).Scan(&p.Pages, &warnings)
	if err == sql.ErrNoRows {
		return Parse{}, false, nil
	}
	if err != nil {
		return Parse{}, false, fmt.Errorf("look up cached parse: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &p.Warnings); err != nil {
		return Parse{}, false, fmt.Errorf("unmarshal warnings: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, date_label, title, quote, quote_source, body, topics, page
		FROM entries WHERE content_hash = ? ORDER BY id`, contentHash)
	if err != nil {
		return Parse{}, false, fmt.Errorf("load cached entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e segment.Entry
		var topics string
		if err := rows.Scan(&e.ID, &e.DateLabel, &e.Title, &e.Quote, &e.QuoteSource, &e.Body, &topics, &e.Page); err != nil {
			return Parse{}, false, fmt.Errorf("scan cached entry: %w", err)
		}
		if err := json.Unmarshal([]byte(topics), &e.Topics); err != nil {
			return Parse{}, false, fmt.Errorf("unmarshal topics for entry %d: %w", e.ID, err)
		}
		p.Entries = append(p.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return Parse{}, false, err
	}

	return p, true, nil
}
