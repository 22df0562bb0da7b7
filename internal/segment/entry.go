package segment

import "fmt"

// Entry is one day's text from the source book.
type Entry struct {
	ID          int      `json:"id"`
	DateLabel   string   `json:"date_label"` // empty = unparsed leading matter
	Title       string   `json:"title"`
	Quote       string   `json:"quote,omitempty"`
	QuoteSource string   `json:"quote_source,omitempty"`
	Body        string   `json:"body"`
	Topics      []string `json:"topics"`
	Page        int      `json:"page,omitempty"`
}

// Warning records text that could not be fully attributed during
// segmentation. Warnings never abort a parse run.
type Warning struct {
	Page int
	Msg  string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Msg)
	}
	return w.Msg
}

// Options controls segmentation and topic extraction. The zero value
// gets defaults applied.
type Options struct {
	StopWords      map[string]bool
	MinTopicLength int
	Stem           bool
}

func (o Options) withDefaults() Options {
	if o.StopWords == nil {
		o.StopWords = DefaultStopWords()
	}
	if o.MinTopicLength <= 0 {
		o.MinTopicLength = 3
	}
	return o
}
