package library

import "time"

// ParseStats is a read-only snapshot of the most recent parse run.
type ParseStats struct {
	Pages       int       `json:"pages"`
	Entries     int       `json:"entries"`
	Topics      int       `json:"topics"`
	Warnings    []string  `json:"warnings,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	FromCache   bool      `json:"from_cache"`
	ParsedAt    time.Time `json:"parsed_at"`
	DurationMS  int64     `json:"duration_ms"`
}
