package conversation

// State of a session's conversation.
//
//	Idle -> AwaitingReply -> Idle            (reply appended)
//	Idle -> AwaitingReply -> Error -> Idle   (error message appended)
//
// Error never outlives the turn that entered it; the session keeps the
// failure kind as its last error instead.
type State int

const (
	Idle State = iota
	AwaitingReply
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingReply:
		return "awaiting_reply"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
