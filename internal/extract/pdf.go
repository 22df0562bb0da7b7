package extract

import (
	"fmt"
	"io"
	"os"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files. Pages that fail to decode yield an
// empty RawPage with the error recorded rather than aborting the run.
type PDFExtractor struct {
	Limits Limits
}

func (p *PDFExtractor) Extract(r io.Reader, filename string) ([]RawPage, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "stoicbot-pdf-*.pdf")
	if err != nil {
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("write temp file: %w", err)}
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, &ExtractionError{Doc: filename, Err: err}
	}
	defer f.Close()

	numPages := reader.NumPage()
	if err := checkPageCount(numPages, p.Limits, filename); err != nil {
		return nil, err
	}

	pages := make([]RawPage, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, RawPage{Number: i, Err: fmt.Errorf("page %d: missing page object", i)})
			continue
		}
		text, err := pageText(page)
		if err != nil {
			pages = append(pages, RawPage{Number: i, Err: fmt.Errorf("page %d: %w", i, err)})
			continue
		}
		pages = append(pages, RawPage{Number: i, Text: text})
	}
	return pages, nil
}

// pageText decodes a single page, converting panics from malformed
// content streams into page-level errors.
func pageText(page pdflib.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode panic: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}
