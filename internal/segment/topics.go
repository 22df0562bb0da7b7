package segment

import (
	"strings"
	"unicode"
)

// ExtractTopics derives the normalized topic set from an entry body:
// case-folded letter/digit runs with stop-words and short tokens
// removed, deduplicated in first-occurrence order. Splitting on
// punctuation keeps every topic a contiguous substring of the folded
// body ("self-control" yields "self" and "control").
func ExtractTopics(body string, opts Options) []string {
	opts = opts.withDefaults()

	var topics []string
	seen := make(map[string]bool)

	for _, tok := range Tokenize(body) {
		if opts.Stem {
			tok = foldPlural(tok)
		}
		if len([]rune(tok)) < opts.MinTopicLength {
			continue
		}
		if opts.StopWords[tok] {
			continue
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		topics = append(topics, tok)
	}
	return topics
}

// Tokenize splits text into lowercase runs of letters and digits.
// Query terms go through this too so lookups and index keys always
// agree.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// foldPlural strips a trailing plural "s". Anything smarter belongs in a
// real stemmer; substring fallback covers the rest.
func foldPlural(tok string) string {
	if len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") {
		return tok[:len(tok)-1]
	}
	return tok
}

// DefaultStopWords returns the built-in English stop-word list. Callers
// may supply their own via Options.
func DefaultStopWords() map[string]bool {
	words := []string{
		"the", "and", "for", "are", "but", "not", "you", "your", "yours",
		"all", "any", "can", "had", "has", "have", "her", "his", "him",
		"she", "its", "our", "ours", "out", "was", "were", "will", "with",
		"this", "that", "these", "those", "they", "their", "theirs",
		"them", "then", "than", "there", "here", "what", "when", "where",
		"which", "who", "whom", "why", "how", "from", "into", "over",
		"under", "again", "more", "most", "some", "such", "only", "own",
		"same", "too", "very", "just", "also", "once", "about", "after",
		"before", "between", "through", "during", "above", "below",
		"because", "until", "while", "should", "would", "could", "may",
		"might", "must", "shall", "does", "did", "doing", "been", "being",
		"each", "few", "both", "other", "another", "against", "down",
		"off", "nor", "now", "one", "two", "way", "even", "ever", "every",
		"itself", "himself", "herself", "themselves", "ourselves",
		"yourself", "myself", "something", "anything", "nothing",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
