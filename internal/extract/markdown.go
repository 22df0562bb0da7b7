package extract

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown files using goldmark. Thematic
// breaks (---) mark page boundaries; headings become their own lines so
// the segmenter can match them as entry headers.
type MarkdownExtractor struct {
	Limits Limits
}

func (p *MarkdownExtractor) Extract(r io.Reader, filename string) ([]RawPage, error) {
	src, err := readBounded(r, p.Limits, filename)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var pages []RawPage
	var current strings.Builder

	flushPage := func() {
		pages = append(pages, RawPage{Number: len(pages) + 1, Text: current.String()})
		current.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.ThematicBreak:
			flushPage()
		case *ast.Heading:
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(string(node.Text(src)))
			current.WriteString("\n")
		default:
			t := nodeText(n, src)
			if t != "" {
				if current.Len() > 0 {
					current.WriteString("\n")
				}
				current.WriteString(t)
				current.WriteString("\n")
			}
		}
	}
	flushPage()

	if err := checkPageCount(len(pages), p.Limits, filename); err != nil {
		return nil, err
	}
	return pages, nil
}

// nodeText gets the text content of a goldmark AST node.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	// Also handle inline children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(nodeText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
