// Package matcher turns a free-text query into a reply and the ids of
// the events it is about.
package matcher

import (
	"context"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
)

// Strategy names, reported in results and metrics.
const (
	StrategyHeuristic = "heuristic"
	StrategyDelegated = "delegated"
)

// Request carries everything a strategy may look at. Events is the
// catalog view the user currently sees.
type Request struct {
	Query       string
	Events      []*domain.Event
	Preferences *domain.UserPreferences // nil = no profile
	History     []domain.Turn
}

// Result is a reply plus the ids of the events it refers to, in the
// order they should be emphasized.
type Result struct {
	Reply        string
	CandidateIDs []string
	Strategy     string
}

type Matcher interface {
	Match(ctx context.Context, req Request) (Result, error)
}
