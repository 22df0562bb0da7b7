package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor handles HTML files. Headings and content blocks become
// their own lines; <hr> marks a page boundary.
type HTMLExtractor struct {
	Limits Limits
}

func (p *HTMLExtractor) Extract(r io.Reader, filename string) ([]RawPage, error) {
	if p.Limits.MaxBytes > 0 {
		r = io.LimitReader(r, p.Limits.MaxBytes+1)
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, &ExtractionError{Doc: filename, Err: fmt.Errorf("parse html: %w", err)}
	}

	var pages []RawPage
	var current strings.Builder

	flushPage := func() {
		pages = append(pages, RawPage{Number: len(pages) + 1, Text: current.String()})
		current.Reset()
	}
	writeLine := func(t string) {
		if t == "" {
			return
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(t)
		current.WriteString("\n")
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "hr":
				flushPage()
				return
			case "script", "style", "nav", "footer", "header":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "td", "blockquote":
				writeLine(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	flushPage()

	if err := checkPageCount(len(pages), p.Limits, filename); err != nil {
		return nil, err
	}
	return pages, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
