package index

import (
	"errors"
	"strings"

	"stoicbot/internal/segment"
)

// ErrNotFound is returned by date lookups with no matching entry. Topic
// lookups return an empty slice instead; a caller asking for "today's
// entry" expects one to exist, a topic search legitimately may not hit.
var ErrNotFound = errors.New("entry not found")

// EntryCollection is the immutable result of one full parse run. It
// owns its entries; the indexes are derived views built once.
type EntryCollection struct {
	entries []segment.Entry
	byDate  map[string]int   // date label -> entry index, first-wins
	byTopic map[string][]int // topic -> entry indexes in document order
}

// Build constructs a collection from entries in document order. The
// same input always yields the same indexes: byDate keeps the first
// entry for a duplicated date label, byTopic appends ids in insertion
// order with no relevance ranking.
func Build(entries []segment.Entry) *EntryCollection {
	c := &EntryCollection{
		entries: entries,
		byDate:  make(map[string]int),
		byTopic: make(map[string][]int),
	}
	for i, e := range entries {
		if e.DateLabel != "" {
			if _, exists := c.byDate[e.DateLabel]; !exists {
				c.byDate[e.DateLabel] = i
			}
		}
		for _, t := range e.Topics {
			c.byTopic[t] = append(c.byTopic[t], i)
		}
	}
	return c
}

// Len returns the number of entries.
func (c *EntryCollection) Len() int { return len(c.entries) }

// Entries returns all entries in document order.
func (c *EntryCollection) Entries() []segment.Entry { return c.entries }

// ByDate returns the entry for an exact date label. The empty label
// (unparsed leading matter) is never matchable.
func (c *EntryCollection) ByDate(label string) (segment.Entry, error) {
	if label == "" {
		return segment.Entry{}, ErrNotFound
	}
	i, ok := c.byDate[label]
	if !ok {
		return segment.Entry{}, ErrNotFound
	}
	return c.entries[i], nil
}

// ByTopic returns entries matching a topic term, in document order. The
// term is tokenized the same way topics were derived, so a query like
// "self-control" becomes the pieces "self" and "control" and an entry
// must match every piece. Per piece: exact match first; when that
// misses, a substring scan over all known topics. Entries matching
// several topic variants appear once. No match is an empty slice, not
// an error.
func (c *EntryCollection) ByTopic(term string) []segment.Entry {
	pieces := segment.Tokenize(term)
	if len(pieces) == 0 {
		return nil
	}

	matched := make(map[int]int)
	for _, piece := range pieces {
		ids := c.byTopic[piece]
		if len(ids) == 0 {
			ids = c.substringMatch(piece)
		}
		if len(ids) == 0 {
			return []segment.Entry{}
		}
		for _, id := range ids {
			matched[id]++
		}
	}

	out := make([]segment.Entry, 0, len(matched))
	for i := range c.entries {
		if matched[i] == len(pieces) {
			out = append(out, c.entries[i])
		}
	}
	return out
}

// substringMatch collects ids for every known topic containing the
// term, deduplicated and returned in document order.
func (c *EntryCollection) substringMatch(term string) []int {
	seen := make(map[int]bool)
	for topic, ids := range c.byTopic {
		if !strings.Contains(topic, term) {
			continue
		}
		for _, id := range ids {
			seen[id] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]int, 0, len(seen))
	for i := range c.entries {
		if seen[i] {
			out = append(out, i)
		}
	}
	return out
}

// Topics returns the number of distinct indexed topics.
func (c *EntryCollection) Topics() int { return len(c.byTopic) }
