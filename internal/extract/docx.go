package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXExtractor handles .docx files. Each paragraph becomes a line; the
// whole document is one page unless explicit page breaks are present.
type DOCXExtractor struct {
	Limits Limits
}

func (p *DOCXExtractor) Extract(r io.Reader, filename string) ([]RawPage, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "stoicbot-docx-*.docx")
	if err != nil {
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("write temp file: %w", err)}
	}
	if p.Limits.MaxBytes > 0 && size > p.Limits.MaxBytes {
		tmp.Close()
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("document exceeds %d bytes", p.Limits.MaxBytes)}
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("seek temp file: %w", err)}
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("parse docx: %w", err)}
	}

	var buf strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}

	return []RawPage{{Number: 1, Text: buf.String()}}, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
