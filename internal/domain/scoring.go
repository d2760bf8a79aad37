package domain

import (
	"slices"
	"strings"
)

const (
	// Scoring weights
	ScoreExactWord    = 100.0
	ScorePrefixWord   = 75.0
	ScoreNameContains = 50.0
	ScoreCategory     = 40.0
	ScoreDescContains = 20.0
)

// Match is an event with its relevance to a search query.
type Match struct {
	Event *Event
	Score float64
}

// ScoreEvent rates how well event answers query. Every query word must
// hit the name, a category or the description; otherwise the score
// is 0.
func ScoreEvent(query *Query, event *Event) float64 {
	if query == nil || event == nil {
		return 0.0
	}

	nameWords := ParseQuery(event.Name).Words
	name := strings.ToLower(event.Name)
	desc := strings.ToLower(event.Description)

	var total float64
	for _, w := range query.Words {
		s := scoreWord(w, name, nameWords, desc, event.Categories)
		if s == 0 {
			return 0.0
		}
		total += s
	}
	return total
}

func scoreWord(w, name string, nameWords []string, desc string, categories []string) float64 {
	best := 0.0
	for _, nw := range nameWords {
		switch {
		case nw == w:
			best = max(best, ScoreExactWord)
		case strings.HasPrefix(nw, w):
			best = max(best, ScorePrefixWord)
		}
	}
	if best == 0 && strings.Contains(name, w) {
		best = ScoreNameContains
	}
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c), w) {
			best = max(best, ScoreCategory)
		}
	}
	if best == 0 && strings.Contains(desc, w) {
		best = ScoreDescContains
	}
	return best
}

// RankEvents scores every event and returns the matching ones, best
// first. Equal scores keep input order. A blank query matches all
// events with score 0; one made only of punctuation matches none.
func RankEvents(query *Query, events []*Event) []Match {
	blank := query == nil || query.Raw == ""
	matches := make([]Match, 0, len(events))
	for _, e := range events {
		if blank {
			matches = append(matches, Match{Event: e})
			continue
		}
		if s := ScoreEvent(query, e); s > 0 {
			matches = append(matches, Match{Event: e, Score: s})
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return matches
}
