package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear anything the host environment might set.
	for _, key := range []string{
		"PORT", "BOOK_PATH", "CACHE_PATH", "MAX_PAGES",
		"MAX_DOCUMENT_BYTES", "MIN_TOPIC_LENGTH", "STEM_TOPICS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.CachePath != "stoicbot.db" {
		t.Errorf("expected default cache path, got %q", cfg.CachePath)
	}
	if cfg.MaxPages != 2000 {
		t.Errorf("expected default max pages 2000, got %d", cfg.MaxPages)
	}
	if cfg.MaxDocumentBytes != 104857600 {
		t.Errorf("expected default 100MB limit, got %d", cfg.MaxDocumentBytes)
	}
	if cfg.MinTopicLength != 3 {
		t.Errorf("expected default min topic length 3, got %d", cfg.MinTopicLength)
	}
	if cfg.StemTopics {
		t.Errorf("stemming should default off")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BOOK_PATH", "/data/book.pdf")
	t.Setenv("MAX_PAGES", "500")
	t.Setenv("FIRST_PAGE", "15")
	t.Setenv("LAST_PAGE", "380")
	t.Setenv("SKIP_PAGES", "45, 75,107")
	t.Setenv("STEM_TOPICS", "true")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %q", cfg.Port)
	}
	if cfg.BookPath != "/data/book.pdf" {
		t.Errorf("expected book path, got %q", cfg.BookPath)
	}
	if cfg.MaxPages != 500 {
		t.Errorf("expected max pages 500, got %d", cfg.MaxPages)
	}
	if cfg.FirstPage != 15 || cfg.LastPage != 380 {
		t.Errorf("expected page window 15..380, got %d..%d", cfg.FirstPage, cfg.LastPage)
	}
	if !reflect.DeepEqual(cfg.SkipPages, []int{45, 75, 107}) {
		t.Errorf("expected skip pages [45 75 107], got %v", cfg.SkipPages)
	}
	if !cfg.StemTopics {
		t.Errorf("expected stemming enabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_PAGES", "not-a-number")
	t.Setenv("MAX_DOCUMENT_BYTES", "-5")
	t.Setenv("SKIP_PAGES", "12,oops,14")

	cfg := Load()
	if cfg.MaxPages != 2000 {
		t.Errorf("expected fallback max pages, got %d", cfg.MaxPages)
	}
	if cfg.MaxDocumentBytes != 104857600 {
		t.Errorf("expected fallback byte limit, got %d", cfg.MaxDocumentBytes)
	}
	if !reflect.DeepEqual(cfg.SkipPages, []int{12, 14}) {
		t.Errorf("expected unparseable skip entries dropped, got %v", cfg.SkipPages)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BookPath: "book.pdf"}, false},
		{"valid window", Config{BookPath: "book.pdf", FirstPage: 15, LastPage: 380}, false},
		{"missing book path", Config{}, true},
		{"negative page", Config{BookPath: "book.pdf", FirstPage: -1}, true},
		{"inverted window", Config{BookPath: "book.pdf", FirstPage: 100, LastPage: 50}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
