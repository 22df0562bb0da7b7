package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// RawPage is one page of extracted text, in document order.
// A page that could not be decoded has empty Text and a non-nil Err;
// extraction continues past it so downstream can report the gap.
type RawPage struct {
	Number int
	Text   string
	Err    error
}

// Limits bounds a single extraction run.
type Limits struct {
	MaxPages int
	MaxBytes int64
}

// Window restricts extraction to a page range of the source document,
// skipping interstitial pages (section dividers, illustrations). Zero
// values mean no restriction. Pages are 1-based.
type Window struct {
	First int
	Last  int
	Skip  []int
}

// ExtractionError marks a document that could not be extracted at all.
// Page-level decode failures do not produce it; they surface as
// RawPage.Err instead.
type ExtractionError struct {
	Doc string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Doc, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor converts raw document bytes into an ordered page sequence.
// The sequence is finite; re-invoking Extract restarts it.
type Extractor interface {
	Extract(r io.Reader, filename string) ([]RawPage, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string, limits Limits) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{Limits: limits}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{Limits: limits}, nil
	case ".csv":
		return &CSVExtractor{Limits: limits}, nil
	case ".html", ".htm":
		return &HTMLExtractor{Limits: limits}, nil
	case ".pdf":
		return &PDFExtractor{Limits: limits}, nil
	case ".docx":
		return &DOCXExtractor{Limits: limits}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// File extracts a document from disk, enforcing size limits and the
// page window.
func File(path string, limits Limits, window Window) ([]RawPage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Doc: path, Err: err}
	}
	if limits.MaxBytes > 0 && info.Size() > limits.MaxBytes {
		return nil, &ExtractionError{
			Doc: path,
			Err: fmt.Errorf("document is %d bytes, limit is %d", info.Size(), limits.MaxBytes),
		}
	}

	ex, err := ForFile(path, limits)
	if err != nil {
		return nil, &ExtractionError{Doc: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Doc: path, Err: err}
	}
	defer f.Close()

	pages, err := ex.Extract(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return ApplyWindow(pages, window), nil
}

// ApplyWindow drops pages outside the configured book window and the
// explicitly skipped ones. Original page numbers are preserved.
func ApplyWindow(pages []RawPage, w Window) []RawPage {
	if w.First == 0 && w.Last == 0 && len(w.Skip) == 0 {
		return pages
	}
	out := make([]RawPage, 0, len(pages))
	for _, p := range pages {
		if w.First > 0 && p.Number < w.First {
			continue
		}
		if w.Last > 0 && p.Number > w.Last {
			continue
		}
		if slices.Contains(w.Skip, p.Number) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// checkPageCount rejects documents past the configured page ceiling.
func checkPageCount(n int, limits Limits, doc string) error {
	if limits.MaxPages > 0 && n > limits.MaxPages {
		return &ExtractionError{
			Doc: doc,
			Err: fmt.Errorf("document has %d pages, limit is %d", n, limits.MaxPages),
		}
	}
	return nil
}
