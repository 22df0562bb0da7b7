package extract

import (
	"fmt"
	"io"
	"strings"
)

// TextExtractor handles plain text files. Form feeds mark page
// boundaries; a file without any is a single page.
type TextExtractor struct {
	Limits Limits
}

func (p *TextExtractor) Extract(r io.Reader, filename string) ([]RawPage, error) {
	data, err := readBounded(r, p.Limits, filename)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(string(data), "\f")
	if err := checkPageCount(len(parts), p.Limits, filename); err != nil {
		return nil, err
	}

	pages := make([]RawPage, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, RawPage{Number: i + 1, Text: part})
	}
	return pages, nil
}

// readBounded reads the whole document, failing when it exceeds the
// byte limit.
func readBounded(r io.Reader, limits Limits, filename string) ([]byte, error) {
	if limits.MaxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, &ExtractionError{Doc: filename, Err: err}
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limits.MaxBytes+1))
	if err != nil {
		return nil, &ExtractionError{Doc: filename, Err: err}
	}
	if int64(len(data)) > limits.MaxBytes {
		return nil, &ExtractionError{
			Doc: filename,
			Err: fmt.Errorf("document exceeds %d bytes", limits.MaxBytes),
		}
	}
	return data, nil
}
