package extract

import (
	"strings"
	"testing"
)

func TestMarkdownExtractor_ThematicBreakPages(t *testing.T) {
	input := "# January 1\n\nFirst day text.\n\n---\n\n# January 2\n\nSecond day text.\n"
	p := &MarkdownExtractor{}
	pages, err := p.Extract(strings.NewReader(input), "book.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if !strings.Contains(pages[0].Text, "January 1") || !strings.Contains(pages[0].Text, "First day text.") {
		t.Errorf("page 1 missing content: %q", pages[0].Text)
	}
	if !strings.Contains(pages[1].Text, "January 2") {
		t.Errorf("page 2 missing heading: %q", pages[1].Text)
	}
}

func TestMarkdownExtractor_HeadingsOnOwnLines(t *testing.T) {
	input := "## March 15\n\nBody text follows the heading.\n"
	p := &MarkdownExtractor{}
	pages, err := p.Extract(strings.NewReader(input), "book.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}

	var headingLine bool
	for _, line := range strings.Split(pages[0].Text, "\n") {
		if strings.TrimSpace(line) == "March 15" {
			headingLine = true
		}
	}
	if !headingLine {
		t.Errorf("heading not on its own line: %q", pages[0].Text)
	}
}

func TestHTMLExtractor_HrPagesAndHeadings(t *testing.T) {
	input := `<html><body>
<h1>January 1</h1><p>First day text.</p>
<hr>
<h1>January 2</h1><p>Second day text.</p>
<script>ignored()</script>
</body></html>`
	p := &HTMLExtractor{}
	pages, err := p.Extract(strings.NewReader(input), "book.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if !strings.Contains(pages[0].Text, "January 1") {
		t.Errorf("page 1 missing heading: %q", pages[0].Text)
	}
	if strings.Contains(pages[0].Text+pages[1].Text, "ignored") {
		t.Errorf("script content leaked into extracted text")
	}
}

func TestCSVExtractor_RowPerPage(t *testing.T) {
	input := "date,title,text\nJanuary 1,CONTROL AND CHOICE,Some daily text.\nJanuary 2,EDUCATION IS FREEDOM,More daily text.\n"
	p := &CSVExtractor{}
	pages, err := p.Extract(strings.NewReader(input), "fixture.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages (header row skipped), got %d", len(pages))
	}

	lines := strings.Split(strings.TrimSpace(pages[0].Text), "\n")
	want := []string{"January 1", "CONTROL AND CHOICE", "Some daily text."}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), pages[0].Text)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}
