package matcher

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/mapbuddy/internal/catalog"
	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
)

const defaultPickCount = 3

// bucket maps query keywords to a slice of the catalog and a canned
// reply. Buckets are tested in slice order; the first one that both
// matches the query and selects at least one event wins.
type bucket struct {
	name     string
	keywords []string
	tags     []string
	pick     func(events []*domain.Event) []*domain.Event // overrides tags
	reply    string                                       // %s = event references
}

var buckets = []bucket{
	{
		name:     "music",
		keywords: []string{"jazz", "music", "concert", "band"},
		tags:     []string{"music", "jazz"},
		reply:    "Looking for music? 🎵 %s should be right up your alley!",
	},
	{
		name:     "food",
		keywords: []string{"food", "eat", "hungry", "dinner", "lunch", "restaurant"},
		tags:     []string{"food"},
		reply:    "Hungry? 🍲 Check out %s for great food around Kyiv.",
	},
	{
		name:     "art",
		keywords: []string{"art", "gallery", "culture", "exhibition", "museum"},
		tags:     []string{"art", "culture"},
		reply:    "For art and culture 🎨 I'd recommend %s.",
	},
	{
		name:     "tech",
		keywords: []string{"tech", "meetup", "startup", "developer", "coding"},
		tags:     []string{"technology", "tech"},
		reply:    "Into tech? 💻 Don't miss %s.",
	},
	{
		name:     "photography",
		keywords: []string{"photo"},
		tags:     []string{"photography"},
		reply:    "Photography fan? 📸 You should meet %s.",
	},
	{
		name:     "coffee",
		keywords: []string{"coffee", "cafe"},
		tags:     []string{"coffee"},
		reply:    "Coffee lovers unite ☕ Say hi to %s.",
	},
	{
		name:     "popular",
		keywords: []string{"popular", "trending", "busy"},
		pick:     mostAttended,
		reply:    "The most popular spots right now 🔥 are %s.",
	},
}

// Heuristic answers from fixed keyword rules. It has no external
// dependency and never fails.
type Heuristic struct {
	defaultIDs []string
}

var _ Matcher = (*Heuristic)(nil)

// NewHeuristic creates the keyword strategy. defaultIDs is the
// catch-all set for queries no bucket recognizes.
func NewHeuristic(defaultIDs []string) *Heuristic {
	return &Heuristic{defaultIDs: slices.Clone(defaultIDs)}
}

func (h *Heuristic) Match(_ context.Context, req Request) (Result, error) {
	q := domain.ParseQuery(req.Query)
	greet := greeting(req.Preferences)

	for _, b := range buckets {
		if !q.HasWordPrefix(b.keywords...) {
			continue
		}
		picked := b.selectFrom(req.Events)
		if len(picked) == 0 {
			continue
		}
		return Result{
			Reply:        greet + fmt.Sprintf(b.reply, references(picked)),
			CandidateIDs: catalog.IDs(picked),
			Strategy:     StrategyHeuristic,
		}, nil
	}

	picked := h.fallback(req.Events)
	if len(picked) == 0 {
		return Result{
			Reply:        greet + "I couldn't find anything on the map for this day. Try picking another date!",
			CandidateIDs: []string{},
			Strategy:     StrategyHeuristic,
		}, nil
	}
	return Result{
		Reply:        greet + fmt.Sprintf("I'm not sure what you're after yet, but here are a few picks: %s. Tell me more about what you enjoy!", references(picked)),
		CandidateIDs: catalog.IDs(picked),
		Strategy:     StrategyHeuristic,
	}, nil
}

func (b bucket) selectFrom(events []*domain.Event) []*domain.Event {
	if b.pick != nil {
		return b.pick(events)
	}
	return catalog.WithCategory(events, b.tags...)
}

// fallback returns the configured defaults present in events, or the
// first few events when none of them are.
func (h *Heuristic) fallback(events []*domain.Event) []*domain.Event {
	byID := make(map[string]*domain.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	picked := make([]*domain.Event, 0, len(h.defaultIDs))
	for _, id := range h.defaultIDs {
		if e, ok := byID[id]; ok {
			picked = append(picked, e)
		}
	}
	if len(picked) > 0 {
		return picked
	}
	return events[:min(defaultPickCount, len(events))]
}

// mostAttended returns the top activities by attendee count.
func mostAttended(events []*domain.Event) []*domain.Event {
	activities := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if e.Kind == domain.KindActivity && e.AttendeeCount() > 0 {
			activities = append(activities, e)
		}
	}
	slices.SortStableFunc(activities, func(a, b *domain.Event) int {
		return b.AttendeeCount() - a.AttendeeCount()
	})
	return activities[:min(defaultPickCount, len(activities))]
}

func greeting(p *domain.UserPreferences) string {
	if name := p.FirstName(); name != "" {
		return "Hey " + name + "! "
	}
	return ""
}

// references renders events as "[A](event:1), [B](event:2) and [C](event:3)".
func references(events []*domain.Event) string {
	refs := make([]string, 0, len(events))
	for _, e := range events {
		refs = append(refs, domain.Reference(e.Name, e.ID))
	}
	if len(refs) == 1 {
		return refs[0]
	}
	return strings.Join(refs[:len(refs)-1], ", ") + " and " + refs[len(refs)-1]
}
