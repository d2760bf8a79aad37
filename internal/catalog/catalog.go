package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
)

var ErrDuplicateID = errors.New("duplicate event id")

// Catalog is the read-only table of events the rest of the core works
// on. It is built once at startup and never mutated, so it needs no
// locking.
type Catalog struct {
	events   []*domain.Event          // load order
	byID     map[string]*domain.Event // ID -> Event
	loadedAt time.Time
}

// New builds a catalog from events, keeping their order.
func New(events []*domain.Event) (*Catalog, error) {
	c := &Catalog{
		events:   make([]*domain.Event, 0, len(events)),
		byID:     make(map[string]*domain.Event, len(events)),
		loadedAt: time.Now(),
	}

	for _, e := range events {
		if e == nil {
			continue
		}
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("event %q has an empty id", e.Name)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		c.byID[e.ID] = e
		c.events = append(c.events, e)
	}

	return c, nil
}

// Get retrieves an event by ID
func (c *Catalog) Get(id string) (*domain.Event, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// All returns every event in load order. The slice is a copy.
func (c *Catalog) All() []*domain.Event {
	return slices.Clone(c.events)
}

// Len returns the number of events
func (c *Catalog) Len() int {
	return len(c.events)
}

// LoadedAt returns when the catalog was built
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}

// Visible returns the events whose schedule applies on ref's calendar
// day, in load order.
func (c *Catalog) Visible(ref, now time.Time) []*domain.Event {
	out := make([]*domain.Event, 0, len(c.events))
	for _, e := range c.events {
		if domain.Applies(e.Schedule, ref, now) {
			out = append(out, e)
		}
	}
	return out
}

// Filter resolves ids in the given order, dropping unknown ones.
func (c *Catalog) Filter(ids []string) []*domain.Event {
	out := make([]*domain.Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := c.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Search keeps the events whose name or description contains query,
// case-insensitively, in the order of events. kinds, when given,
// restricts the result. A blank query matches every allowed event.
func Search(events []*domain.Event, query string, kinds ...domain.Kind) []*domain.Event {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*domain.Event, 0, len(events))
	for _, e := range ofKinds(events, kinds) {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	return out
}

// Rank orders the allowed events by relevance to query, best first.
// Every query word has to hit the name, a category or the description.
func Rank(events []*domain.Event, query string, kinds ...domain.Kind) []*domain.Event {
	matches := domain.RankEvents(domain.ParseQuery(query), ofKinds(events, kinds))
	out := make([]*domain.Event, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Event)
	}
	return out
}

func ofKinds(events []*domain.Event, kinds []domain.Kind) []*domain.Event {
	if len(kinds) == 0 {
		return events
	}
	out := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if slices.Contains(kinds, e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

// Search runs Search over the whole catalog.
func (c *Catalog) Search(query string, kinds ...domain.Kind) []*domain.Event {
	return Search(c.events, query, kinds...)
}

// WithCategory returns events carrying any of tags, in the order of
// events.
func WithCategory(events []*domain.Event, tags ...string) []*domain.Event {
	out := make([]*domain.Event, 0)
	for _, e := range events {
		for _, tag := range tags {
			if e.HasCategory(tag) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// IDs returns the ids of events, in order.
func IDs(events []*domain.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}
