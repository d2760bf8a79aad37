package domain

import "time"

// Role is the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation shown to the user.
// Messages are values; once appended they never change.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`

	// CandidateIDs are the event ids the reply refers to, if any.
	CandidateIDs []string `json:"candidateIds,omitempty"`

	// Interactive tells the surface to render clickable affordances.
	Interactive bool `json:"interactive,omitempty"`
}

// Turn is the role+text pair kept for prompting.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
