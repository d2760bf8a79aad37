package domain

import (
	"fmt"
	"strings"
)

// Tier value meaning "no preference".
const TierAny = "any"

// NoProfileMarker is what the prompt carries when no profile exists.
const NoProfileMarker = "No user profile available."

// UserPreferences is the profile a user fills in once. It is stored as
// a flat JSON record; every field is optional.
type UserPreferences struct {
	Name          string   `json:"name" validate:"max=64"`
	Age           string   `json:"age" validate:"omitempty,oneof=18-25 26-35 36-45 46-55 56+"`
	Location      string   `json:"location" validate:"max=128"`
	Interests     []string `json:"interests" validate:"max=20,dive,required,max=32"`
	Budget        string   `json:"budget" validate:"omitempty,oneof=low medium high any"`
	PreferredTime string   `json:"preferredTime" validate:"omitempty,oneof=morning afternoon evening any"`
	GroupSize     string   `json:"groupSize" validate:"omitempty,oneof=solo couple small-group large-group any"`
	Languages     []string `json:"languages" validate:"max=10,dive,required,max=32"`
}

// Normalize fills unset tiers with "any" and replaces nil slices with
// empty ones. It returns the receiver for chaining.
func (p *UserPreferences) Normalize() *UserPreferences {
	if p.Budget == "" {
		p.Budget = TierAny
	}
	if p.PreferredTime == "" {
		p.PreferredTime = TierAny
	}
	if p.GroupSize == "" {
		p.GroupSize = TierAny
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	return p
}

// HasProfile reports whether the profile is complete enough to
// personalize replies: a name and at least one interest.
func (p *UserPreferences) HasProfile() bool {
	return p != nil && strings.TrimSpace(p.Name) != "" && len(p.Interests) > 0
}

// FirstName returns the first word of the name, or "" when unknown.
func (p *UserPreferences) FirstName() string {
	if p == nil {
		return ""
	}
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var interestLabels = map[string]string{
	"music":       "Music",
	"food":        "Food & Dining",
	"art":         "Art & Culture",
	"tech":        "Technology",
	"fitness":     "Fitness & Sports",
	"travel":      "Travel & Adventure",
	"photography": "Photography",
	"reading":     "Reading & Literature",
	"coffee":      "Coffee & Cafes",
	"social":      "Social Events",
}

// InterestLabel returns the display label for an interest id.
// Unknown ids are returned unchanged.
func InterestLabel(id string) string {
	if label, ok := interestLabels[id]; ok {
		return label
	}
	return id
}

// PromptSummary renders preferences as the profile block embedded in
// reasoning prompts. A nil profile yields NoProfileMarker.
func PromptSummary(p *UserPreferences) string {
	if p == nil {
		return NoProfileMarker
	}

	interests := make([]string, 0, len(p.Interests))
	for _, id := range p.Interests {
		interests = append(interests, InterestLabel(id))
	}

	languages := "Not specified"
	if len(p.Languages) > 0 {
		languages = strings.Join(p.Languages, ", ")
	}

	var b strings.Builder
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Age: %s\n", p.Age)
	fmt.Fprintf(&b, "- Location: %s\n", p.Location)
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(interests, ", "))
	fmt.Fprintf(&b, "- Budget: %s\n", p.Budget)
	fmt.Fprintf(&b, "- Preferred Time: %s\n", p.PreferredTime)
	fmt.Fprintf(&b, "- Group Size: %s\n", p.GroupSize)
	fmt.Fprintf(&b, "- Languages: %s", languages)
	return b.String()
}
