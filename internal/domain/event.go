package domain

import "strings"

// Kind distinguishes what an Event points at on the map.
type Kind string

const (
	KindActivity Kind = "activity"
	KindPerson   Kind = "person"
)

// ParseKind maps a raw kind label to a Kind. "event" is accepted as an
// alias of activity because seed files written for the map UI use it.
func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "activity", "event":
		return KindActivity, true
	case "person":
		return KindPerson, true
	default:
		return "", false
	}
}

// Coordinates is a longitude/latitude pair, in that order, as map
// surfaces expect it.
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Event is one catalog entry: an activity happening somewhere or a
// person who can be met.
//
// Events are owned by the catalog and never mutated after load.
type Event struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is unique and stable across the process lifetime.
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	// ─────────────────────────────
	// Description & placement
	// ─────────────────────────────

	Description string      `json:"description"`
	Coordinates Coordinates `json:"coordinates"`
	Location    string      `json:"location,omitempty"`

	// ─────────────────────────────
	// Optional metadata
	// ─────────────────────────────

	// Schedule is human-readable recurrence text such as
	// "Every Wednesday" or "This Weekend". Empty means always on.
	Schedule   string   `json:"schedule,omitempty"`
	TimeOfDay  string   `json:"timeOfDay,omitempty"`
	Attendees  *int     `json:"attendees,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Price      string   `json:"price,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// HasCategory reports whether the event carries tag, ignoring case.
func (e *Event) HasCategory(tag string) bool {
	for _, c := range e.Categories {
		if strings.EqualFold(c, tag) {
			return true
		}
	}
	return false
}

// AttendeeCount returns the attendee count or 0 when unknown.
func (e *Event) AttendeeCount() int {
	if e.Attendees == nil {
		return 0
	}
	return *e.Attendees
}
