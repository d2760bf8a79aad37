package conversation

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/highlight"
	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/matcher"
	"github.com/MrSnakeDoc/mapbuddy/internal/reasoning"
)

// Session is one conversation with its own highlight.
type Session struct {
	ID        string
	CreatedAt time.Time

	mgr    *Manager
	broker *highlight.Broker
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger

	mu       sync.Mutex
	state    State
	messages []domain.Message // replaced, never mutated in place
	history  []domain.Turn
	date     time.Time
	lastErr  string // kind of the last failed turn, "" after a success
	closed   bool
}

// Outcome is what a turn produced. Err is set when the reply is an
// error message.
type Outcome struct {
	Message   domain.Message
	Strategy  string
	Highlight highlight.Set
	Err       error
}

// View is a point-in-time copy of a session.
type View struct {
	ID        string           `json:"id"`
	State     State            `json:"state"`
	Date      string           `json:"date"`
	LastError string           `json:"lastError,omitempty"`
	Messages  []domain.Message `json:"messages"`
	Highlight highlight.Set    `json:"highlight"`
}

// Submit runs one turn. The user message is appended before matching
// starts; only ErrEmptyInput, ErrBusy and ErrClosed leave no trace.
func (s *Session) Submit(ctx context.Context, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if s.state != Idle {
		s.mu.Unlock()
		s.mgr.opts.Metrics.Busy()
		return Outcome{}, ErrBusy
	}
	s.state = AwaitingReply
	s.appendLocked(newMessage(domain.RoleUser, text, s.mgr.now()))
	history := slices.Clone(s.history)
	date := s.date
	s.mu.Unlock()

	m := s.mgr
	strategy, mode := m.strategy(ctx)
	req := matcher.Request{
		Query:       text,
		Events:      m.opts.Catalog.Visible(date, m.now()),
		Preferences: m.preferences(ctx, s.log),
		History:     history,
	}

	start := time.Now()
	res, err := strategy.Match(s.ctx, req)
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		m.opts.Metrics.Discard()
		s.log.Debug("discarding reply for closed session")
		return Outcome{}, ErrClosed
	}

	if err != nil {
		s.state = Error
		msg := newMessage(domain.RoleAssistant, UserMessage(err), m.now())
		s.appendLocked(msg)
		s.lastErr = reasoning.KindLabel(err)
		s.state = Idle

		m.opts.Metrics.TurnFailed(reasoning.KindLabel(err))
		s.logFailure(err)
		return Outcome{Message: msg, Strategy: mode, Err: err}, nil
	}

	msg := newMessage(domain.RoleAssistant, res.Reply, m.now())
	msg.CandidateIDs = slices.Clone(res.CandidateIDs)
	msg.Interactive = len(res.CandidateIDs) > 0
	s.appendLocked(msg)

	set := s.broker.Emphasize(res.CandidateIDs, m.opts.HighlightTTL)
	if len(res.CandidateIDs) > 0 {
		m.opts.Metrics.Emphasize("match")
	}

	s.history = append(slices.Clip(s.history),
		domain.Turn{Role: domain.RoleUser, Text: text},
		domain.Turn{Role: domain.RoleAssistant, Text: res.Reply},
	)
	s.lastErr = ""
	s.state = Idle

	m.opts.Metrics.TurnDone(res.Strategy, elapsed)
	s.log.Debug("turn answered",
		logger.String("strategy", res.Strategy),
		logger.Strings("ids", res.CandidateIDs),
		logger.Duration("took", elapsed),
	)
	return Outcome{Message: msg, Strategy: res.Strategy, Highlight: set}, nil
}

func (s *Session) logFailure(err error) {
	if errors.Is(err, reasoning.ErrMissingCredential) {
		s.log.Info("turn needs a credential")
		return
	}
	s.log.Warn("turn failed", logger.String("kind", reasoning.KindLabel(err)), logger.Error(err))
}

// SetDate changes the selected date and clears the highlight. It is
// refused while a reply is pending, since that reply was matched
// against the current date's events.
func (s *Session) SetDate(date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state == AwaitingReply {
		return ErrBusy
	}
	s.date = date.In(s.mgr.opts.Location)
	s.broker.Clear()
	return nil
}

// Date returns the selected date.
func (s *Session) Date() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

// Select emphasizes a single event picked from a list or search.
func (s *Session) Select(id string) (highlight.Set, error) {
	if _, ok := s.mgr.opts.Catalog.Get(id); !ok {
		return highlight.Set{}, ErrUnknownEvent
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return highlight.Set{}, ErrClosed
	}
	s.mgr.opts.Metrics.Emphasize("select")
	return s.broker.Select(id, s.mgr.opts.HighlightTTL), nil
}

// ClearHighlight drops the current highlight.
func (s *Session) ClearHighlight() {
	s.broker.Clear()
}

// Reset forgets the conversation. It is refused while a reply is pending.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state == AwaitingReply {
		return ErrBusy
	}
	s.messages = nil
	s.history = nil
	s.lastErr = ""
	s.broker.Clear()
	return nil
}

// Messages returns the message list. The slice must not be modified.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages
}

// History returns a copy of the prompt history.
func (s *Session) History() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// State is Idle or AwaitingReply to any caller: the Error leg is
// entered and left under the session lock. LastError tells whether the
// last turn failed.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError is the kind label of the last turn if it failed, "" otherwise.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) Highlight() highlight.Set {
	return s.broker.Snapshot()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return View{
		ID:        s.ID,
		State:     s.state,
		Date:      s.date.Format(time.DateOnly),
		LastError: s.lastErr,
		Messages:  msgs,
		Highlight: s.broker.Snapshot(),
	}
}

// Close tears the session down. A pending turn's result is discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.broker.Clear()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) appendLocked(msg domain.Message) {
	next := make([]domain.Message, len(s.messages), len(s.messages)+1)
	copy(next, s.messages)
	s.messages = append(next, msg)
}
