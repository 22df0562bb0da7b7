package segment

import (
	"fmt"
	"regexp"
	"strings"
)

// headerMatcher recognizes one style of entry header. Matchers are
// tried in priority order; the first hit wins.
type headerMatcher struct {
	name      string
	re        *regexp.Regexp
	normalize func(m []string) string
}

var headerMatchers = []headerMatcher{
	{
		// "January 1st", "March 15", with an optional ordinal suffix
		// and optional trailing period from OCR noise.
		name: "month-day",
		re: regexp.MustCompile(`(?i)^(January|February|March|April|May|June|July|August|September|October|November|December)\s+([0-9]{1,2})(?:st|nd|rd|th)?\.?$`),
		normalize: func(m []string) string {
			month := strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:])
			day := strings.TrimLeft(m[2], "0")
			if day == "" {
				day = "0"
			}
			return fmt.Sprintf("%s %s", month, day)
		},
	},
	{
		name:      "iso-date",
		re:        regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})$`),
		normalize: func(m []string) string { return m[1] },
	},
	{
		name: "day-of-year",
		re:   regexp.MustCompile(`(?i)^Day\s+(\d{1,3})$`),
		normalize: func(m []string) string {
			return "Day " + strings.TrimLeft(m[1], "0")
		},
	},
}

// matchHeader reports whether a trimmed line is an entry header and
// returns its normalized date label.
func matchHeader(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	for _, hm := range headerMatchers {
		if m := hm.re.FindStringSubmatch(line); m != nil {
			return hm.normalize(m), true
		}
	}
	return "", false
}
