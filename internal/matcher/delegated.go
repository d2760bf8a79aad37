package matcher

import (
	"context"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/reasoning"
)

// CredentialResolver yields the credential for delegated calls.
type CredentialResolver interface {
	Resolve(ctx context.Context) (string, reasoning.Source, error)
}

// Delegated hands the query to a remote reasoning service. Failures
// are returned as typed *reasoning.Error values and never replaced
// with a local answer.
type Delegated struct {
	completer reasoning.Completer
	creds     CredentialResolver
}

var _ Matcher = (*Delegated)(nil)

func NewDelegated(completer reasoning.Completer, creds CredentialResolver) *Delegated {
	return &Delegated{completer: completer, creds: creds}
}

func (d *Delegated) Match(ctx context.Context, req Request) (Result, error) {
	key, _, err := d.creds.Resolve(ctx)
	if err != nil {
		return Result{}, err
	}

	reply, err := d.completer.Complete(ctx, key, reasoning.Request{
		Instructions: BuildInstructions(req.Events, req.Preferences),
		History:      req.History,
		Prompt:       req.Query,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Reply:        reply,
		CandidateIDs: domain.ExtractIDs(reply),
		Strategy:     StrategyDelegated,
	}, nil
}
