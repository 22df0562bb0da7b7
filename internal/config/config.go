package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer auth on the API.
	APIKey string

	// Source document
	BookPath string

	// Persisted entry cache (empty disables caching)
	CachePath string

	// Extraction limits
	MaxPages         int
	MaxDocumentBytes int64

	// Book page window. Pages are 1-based; zero values mean the whole
	// document is extracted.
	FirstPage int
	LastPage  int
	SkipPages []int

	// Topic extraction
	MinTopicLength int
	StopwordsFile  string
	StemTopics     bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("STOICBOT_API_KEY"),

		BookPath:  os.Getenv("BOOK_PATH"),
		CachePath: envOr("CACHE_PATH", "stoicbot.db"),

		MaxPages:         envInt("MAX_PAGES", 2000),
		MaxDocumentBytes: envInt64("MAX_DOCUMENT_BYTES", 104857600), // 100MB

		FirstPage: envInt("FIRST_PAGE", 0),
		LastPage:  envInt("LAST_PAGE", 0),
		SkipPages: envInts("SKIP_PAGES"),

		MinTopicLength: envInt("MIN_TOPIC_LENGTH", 3),
		StopwordsFile:  os.Getenv("STOPWORDS_FILE"),
		StemTopics:     envBool("STEM_TOPICS", false),
	}

	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 2000
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 104857600
	}
	if cfg.MinTopicLength <= 0 {
		cfg.MinTopicLength = 3
	}

	return cfg
}

func (c Config) Validate() error {
	if c.BookPath == "" {
		return fmt.Errorf("BOOK_PATH is required")
	}
	if c.FirstPage < 0 || c.LastPage < 0 {
		return fmt.Errorf("page window must be non-negative")
	}
	if c.LastPage > 0 && c.FirstPage > c.LastPage {
		return fmt.Errorf("FIRST_PAGE (%d) is after LAST_PAGE (%d)", c.FirstPage, c.LastPage)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envInts parses a comma-separated list of integers, e.g. "45,75,107".
func envInts(key string) []int {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}
