package domain

import (
	"strings"
	"unicode"
)

// Query is free user text broken into lower-cased words.
type Query struct {
	Raw   string   // Original input, trimmed
	Words []string // Letter/digit runs, lower-cased
}

// ParseQuery splits input on anything that is not a letter or digit.
// Examples:
//   - "I like Jazz!" -> ["i", "like", "jazz"]
//   - "tech-meetup"  -> ["tech", "meetup"]
func ParseQuery(input string) *Query {
	input = strings.TrimSpace(input)
	q := &Query{Raw: input}
	if input == "" {
		return q
	}

	q.Words = strings.FieldsFunc(strings.ToLower(input), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return q
}

// HasWordPrefix reports whether any query word starts with one of the
// given keywords: "photographers" hits "photo", "startup" never hits
// "art".
func (q *Query) HasWordPrefix(keywords ...string) bool {
	if q == nil {
		return false
	}
	for _, w := range q.Words {
		for _, k := range keywords {
			if strings.HasPrefix(w, k) {
				return true
			}
		}
	}
	return false
}
