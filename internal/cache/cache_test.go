package cache

import (
	"path/filepath"
	"reflect"
	"testing"

	"stoicbot/internal/segment"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testParse() Parse {
	return Parse{
		Entries: []segment.Entry{
			{
				ID:          0,
				DateLabel:   "January 1",
				Title:       "CONTROL AND CHOICE",
				Quote:       "“The chief task in life.”",
				QuoteSource: "—EPICTETUS, DISCOURSES, 2.5.4–5",
				Body:        "“The chief task in life.”\n\n—EPICTETUS, DISCOURSES, 2.5.4–5\n\nThe single most important practice.",
				Topics:      []string{"chief", "task", "life", "practice"},
				Page:        15,
			},
			{
				ID:        1,
				DateLabel: "January 2",
				Title:     "EDUCATION IS FREEDOM",
				Body:      "An education is freedom.",
				Topics:    []string{"education", "freedom"},
				Page:      16,
			},
		},
		Pages:    2,
		Warnings: []string{"page 3: decode failed"},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := testStore(t)
	want := testParse()

	if err := s.Save("hash-a", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.Load("hash-a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestStore_RoundTripWithoutWarnings(t *testing.T) {
	s := testStore(t)
	want := testParse()
	want.Warnings = nil

	if err := s.Save("hash-a", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.Load("hash-a")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Warnings != nil {
		t.Errorf("expected nil warnings back, got %v", got.Warnings)
	}
	if got.Pages != want.Pages {
		t.Errorf("expected %d pages, got %d", want.Pages, got.Pages)
	}
}

func TestStore_MissReturnsFalse(t *testing.T) {
	s := testStore(t)
	_, ok, err := s.Load("no-such-hash")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Errorf("expected cache miss")
	}
}

func TestStore_SaveReplacesPreviousParse(t *testing.T) {
	s := testStore(t)
	if err := s.Save("hash-a", testParse()); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := testParse()
	second.Entries = second.Entries[:1]
	second.Pages = 1
	if err := s.Save("hash-b", second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	// Only the latest parse is retained.
	if _, ok, _ := s.Load("hash-a"); ok {
		t.Errorf("expected old parse evicted")
	}
	got, ok, err := s.Load("hash-b")
	if err != nil || !ok {
		t.Fatalf("load latest: ok=%v err=%v", ok, err)
	}
	if len(got.Entries) != 1 || got.Pages != 1 {
		t.Errorf("expected 1 entry over 1 page, got %d entries over %d pages", len(got.Entries), got.Pages)
	}
}
