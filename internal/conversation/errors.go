package conversation

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/mapbuddy/internal/reasoning"
)

var (
	// ErrBusy rejects a message while the previous one is unanswered.
	ErrBusy = errors.New("a reply is still pending")
	// ErrClosed is returned by a torn-down session.
	ErrClosed = errors.New("session closed")
	// ErrEmptyInput rejects blank messages.
	ErrEmptyInput = errors.New("message is empty")
	// ErrUnknownEvent is returned when selecting an id the catalog lacks.
	ErrUnknownEvent = errors.New("unknown event")
)

// UserMessage turns a failed turn into the text shown to the user.
func UserMessage(err error) string {
	var rerr *reasoning.Error
	detail := ""
	if errors.As(err, &rerr) {
		detail = rerr.Detail
	}

	switch {
	case errors.Is(err, reasoning.ErrMissingCredential):
		return "The AI assistant isn't set up yet. Please add your OpenRouter API key to get personalized answers."
	case errors.Is(err, reasoning.ErrInvalidCredential):
		return "Invalid API key. Please check your OpenRouter API key."
	case errors.Is(err, reasoning.ErrRateLimited):
		return "Rate limit exceeded. Please try again later."
	case errors.Is(err, reasoning.ErrNetworkFailure):
		return "I couldn't reach the AI service. Please check your connection and try again."
	case errors.Is(err, reasoning.ErrMalformedResponse):
		return "The AI service sent back an answer I couldn't read. Please try again."
	case errors.Is(err, reasoning.ErrRemoteFailure) && detail != "":
		return fmt.Sprintf("API Error: %s", detail)
	default:
		return "Sorry, something went wrong while looking that up. Please try again."
	}
}
