package segment

import (
	"strings"
	"unicode"

	"stoicbot/internal/extract"
)

const (
	startQuote = "“"
	endQuote   = "”"
	sourceDash = "—"

	// Dropped-cap lines are one letter, possibly quote-prefixed.
	maxCapRunes = 2
)

// line is a single text line with the page it came from.
type line struct {
	text string
	page int
}

// Segment partitions an ordered page sequence into entries. Text before
// the first header becomes an entry with an empty date label; text after
// the last header accumulates into that entry. Duplicate headers produce
// distinct entries.
func Segment(pages []extract.RawPage, opts Options) ([]Entry, []Warning) {
	opts = opts.withDefaults()

	var warnings []Warning
	lines := collectLines(pages, &warnings)

	var entries []Entry
	var cur *pending

	flush := func() {
		if cur == nil {
			return
		}
		e, ok := cur.build(opts)
		if !ok {
			if cur.dateLabel != "" {
				warnings = append(warnings, Warning{
					Page: cur.page,
					Msg:  "entry " + cur.dateLabel + " has no body text",
				})
			}
			cur = nil
			return
		}
		if e.DateLabel == "" {
			warnings = append(warnings, Warning{
				Page: cur.page,
				Msg:  "text before first header kept as unlabeled entry",
			})
		}
		entries = append(entries, e)
		cur = nil
	}

	for _, ln := range lines {
		t := strings.TrimSpace(ln.text)

		if label, ok := matchHeader(t); ok {
			// A short line right before a header is the next page's
			// dropped capital, not part of the previous entry.
			dropped := ""
			if cur != nil {
				dropped = cur.popDroppedCap()
			}
			flush()
			cur = &pending{dateLabel: label, page: ln.page, inTitle: true, cap: dropped}
			continue
		}

		if cur == nil {
			if t == "" {
				continue
			}
			// Leading matter before any header.
			cur = &pending{page: ln.page}
		}
		cur.add(t)
	}
	flush()

	for i := range entries {
		entries[i].ID = i
	}
	return entries, warnings
}

// collectLines concatenates pages into a single line stream, stitching
// headers that break across a page boundary and recording undecodable
// pages as warnings.
func collectLines(pages []extract.RawPage, warnings *[]Warning) []line {
	var lines []line
	lastText := -1 // index of last non-blank line

	for _, p := range pages {
		if p.Err != nil {
			*warnings = append(*warnings, Warning{Page: p.Number, Msg: p.Err.Error()})
			continue
		}
		text := strings.ReplaceAll(p.Text, "\t", " ")
		pageLines := strings.Split(text, "\n")

		// Stitch a header split across the boundary: the previous page's
		// tail plus this page's head form a header only when joined.
		if lastText >= 0 {
			if j := firstNonBlank(pageLines); j >= 0 {
				prev := strings.TrimSpace(lines[lastText].text)
				next := strings.TrimSpace(pageLines[j])
				joined := prev + " " + next
				if _, ok := matchHeader(joined); ok {
					if _, pOK := matchHeader(prev); !pOK {
						if _, nOK := matchHeader(next); !nOK {
							lines[lastText].text = joined
							pageLines = pageLines[j+1:]
						}
					}
				}
			}
		}

		for _, l := range pageLines {
			lines = append(lines, line{text: l, page: p.Number})
			if strings.TrimSpace(l) != "" {
				lastText = len(lines) - 1
			}
		}
	}
	return lines
}

func firstNonBlank(ls []string) int {
	for i, l := range ls {
		if strings.TrimSpace(l) != "" {
			return i
		}
	}
	return -1
}

// pending is an entry under construction.
type pending struct {
	dateLabel string
	page      int
	inTitle   bool
	cap       string // dropped capital restored to the explanation
	title     []string
	body      []string
}

func (p *pending) add(t string) {
	if p.inTitle {
		if t == "" && len(p.title) == 0 {
			return // blank between header and title
		}
		if t != "" && isAllCaps(t) {
			p.title = append(p.title, t)
			return
		}
		p.inTitle = false
	}
	p.body = append(p.body, t)
}

// popDroppedCap removes a trailing one-or-two character line from the
// body. Book layouts place the next entry's dropped capital at the top
// of the page, before the date header.
func (p *pending) popDroppedCap() string {
	for i := len(p.body) - 1; i >= 0; i-- {
		if p.body[i] == "" {
			continue
		}
		if len([]rune(p.body[i])) <= maxCapRunes {
			dropped := capLetters(p.body[i])
			p.body = p.body[:i]
			return dropped
		}
		return ""
	}
	return ""
}

// capLetters keeps only the letters of a dropped-cap line, discarding a
// stray quote or punctuation prefix.
func capLetters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// build finalizes the entry: quote/source/explanation split, whitespace
// normalization, topic extraction.
func (p *pending) build(opts Options) (Entry, bool) {
	e := Entry{
		DateLabel: p.dateLabel,
		Title:     strings.TrimSpace(strings.Join(p.title, "")),
		Page:      p.page,
	}

	quote, source, rest, hasQuote := splitQuote(p.body)

	if hasQuote {
		e.Quote = applyQuotes(quote)
		e.QuoteSource = source
		explanation := p.cap + normalizeLines(rest)
		parts := make([]string, 0, 3)
		for _, part := range []string{e.Quote, e.QuoteSource, explanation} {
			if part != "" {
				parts = append(parts, part)
			}
		}
		e.Body = strings.Join(parts, "\n\n")
	} else {
		e.Body = p.cap + normalizeLines(p.body)
	}

	if e.Body == "" {
		return Entry{}, false
	}
	e.Topics = ExtractTopics(e.Body, opts)
	return e, true
}

// splitQuote separates a leading smart-quoted passage and its source
// attribution from the rest of the body. Tolerates a missing closing
// quote mark and a missing source dash, as printed copies do.
func splitQuote(body []string) (quote, source string, rest []string, ok bool) {
	i := 0
	for i < len(body) && body[i] == "" {
		i++
	}
	if i >= len(body) || !strings.HasPrefix(body[i], startQuote) {
		return "", "", nil, false
	}

	var quoteLines []string
	for ; i < len(body); i++ {
		cur := body[i]
		quoteLines = append(quoteLines, cur)
		next := ""
		if i+1 < len(body) {
			next = body[i+1]
		}
		if isEndOfQuote(cur, next) {
			i++
			break
		}
	}
	quote = strings.TrimSpace(strings.Join(quoteLines, " "))

	// Source attribution: an em-dash line, or an uppercase run when the
	// dash went missing in extraction.
	if i < len(body) {
		l := body[i]
		if strings.HasPrefix(l, sourceDash) {
			source = sourceDash + strings.TrimSpace(strings.TrimPrefix(l, sourceDash))
			i++
		} else if firstRunesUpper(l, 5) {
			source = sourceDash + strings.TrimSpace(l)
			i++
		}
	}

	return quote, source, body[i:], true
}

// isEndOfQuote mirrors the printed layout: the quote ends at a closing
// quote mark, or right before the source attribution line.
func isEndOfQuote(cur, next string) bool {
	if strings.HasSuffix(cur, endQuote) {
		return true
	}
	if strings.HasPrefix(next, sourceDash) && firstRunesUpper(strings.TrimPrefix(next, sourceDash), 5) {
		return true
	}
	return firstRunesUpper(next, 5)
}

// firstRunesUpper reports whether the first n runes contain a letter and
// every letter among them is uppercase.
func firstRunesUpper(s string, n int) bool {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	hasLetter := false
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return hasLetter
}

// isAllCaps reports whether a line contains a letter and no lowercase.
func isAllCaps(s string) bool {
	return s == strings.ToUpper(s) && s != strings.ToLower(s)
}

// applyQuotes ensures the quote carries both smart quote marks.
func applyQuotes(quote string) string {
	if quote == "" {
		return quote
	}
	if !strings.HasPrefix(quote, startQuote) {
		quote = startQuote + quote
	}
	if !strings.HasSuffix(quote, endQuote) {
		quote = quote + endQuote
	}
	return quote
}

// normalizeLines collapses intra-paragraph line breaks to single spaces
// and blank lines to paragraph boundaries.
func normalizeLines(lines []string) string {
	var paragraphs []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			paragraphs = append(paragraphs, cur.String())
			cur.Reset()
		}
	}

	for _, l := range lines {
		if l == "" {
			flush()
			continue
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(l)
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}
