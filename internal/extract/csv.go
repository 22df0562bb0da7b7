package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor handles CSV files with date,title,text columns. Each row
// is rendered as one page shaped like a book page, which keeps fixture
// documents trivial to author.
type CSVExtractor struct {
	Limits Limits
}

func (p *CSVExtractor) Extract(r io.Reader, filename string) ([]RawPage, error) {
	if p.Limits.MaxBytes > 0 {
		r = io.LimitReader(r, p.Limits.MaxBytes+1)
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("parse csv: %w", err)}
	}
	if len(records) == 0 {
		return nil, nil
	}

	// First row is headers.
	dataRows := records[1:]
	if err := checkPageCount(len(dataRows), p.Limits, filename); err != nil {
		return nil, err
	}

	pages := make([]RawPage, 0, len(dataRows))
	for i, row := range dataRows {
		var text strings.Builder
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			text.WriteString(cell)
			text.WriteString("\n")
		}
		pages = append(pages, RawPage{Number: i + 1, Text: text.String()})
	}
	return pages, nil
}
