package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/mapbuddy/internal/catalog"
	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/highlight"
	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
	"github.com/MrSnakeDoc/mapbuddy/internal/matcher"
	"github.com/MrSnakeDoc/mapbuddy/internal/metrics"
)

// Availability reports whether the delegated strategy can run.
type Availability interface {
	Available(ctx context.Context) bool
}

// PreferencesLoader reads the user profile; nil means no profile.
type PreferencesLoader interface {
	Load(ctx context.Context) (*domain.UserPreferences, error)
}

// Options wires a Manager. Delegated, Credentials and Preferences are
// optional.
type Options struct {
	Catalog      *catalog.Catalog
	Heuristic    matcher.Matcher
	Delegated    matcher.Matcher
	Credentials  Availability
	Preferences  PreferencesLoader
	HighlightTTL time.Duration
	Location     *time.Location  // calendar of the selected date, default Local
	Clock        highlight.Clock // default highlight.RealClock
	Metrics      *metrics.Metrics
	Logger       logger.Logger
}

// Manager creates sessions and holds what they share.
type Manager struct {
	opts Options
}

func NewManager(opts Options) *Manager {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = highlight.RealClock
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Manager{opts: opts}
}

// NewSession starts an idle session looking at today.
func (m *Manager) NewSession() *Session {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	broker := highlight.NewBroker(m.opts.Clock)
	broker.OnExpire(func(highlight.Set) { m.opts.Metrics.Expire() })

	return &Session{
		ID:        id,
		CreatedAt: m.now(),
		mgr:       m,
		broker:    broker,
		ctx:       ctx,
		cancel:    cancel,
		log:       m.opts.Logger.With(logger.String("session", id)),
		date:      m.now(),
		state:     Idle,
	}
}

// Mode tells which strategy a new message would use right now.
func (m *Manager) Mode(ctx context.Context) string {
	if m.delegatedAvailable(ctx) {
		return matcher.StrategyDelegated
	}
	return matcher.StrategyHeuristic
}

// Catalog returns the shared catalog.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.opts.Catalog
}

func (m *Manager) strategy(ctx context.Context) (matcher.Matcher, string) {
	if m.delegatedAvailable(ctx) {
		return m.opts.Delegated, matcher.StrategyDelegated
	}
	return m.opts.Heuristic, matcher.StrategyHeuristic
}

func (m *Manager) delegatedAvailable(ctx context.Context) bool {
	return m.opts.Delegated != nil && m.opts.Credentials != nil && m.opts.Credentials.Available(ctx)
}

func (m *Manager) preferences(ctx context.Context, log logger.Logger) *domain.UserPreferences {
	if m.opts.Preferences == nil {
		return nil
	}
	p, err := m.opts.Preferences.Load(ctx)
	if err != nil {
		log.Warn("ignoring unreadable preferences", logger.Error(err))
		return nil
	}
	return p
}

func (m *Manager) now() time.Time {
	return m.opts.Clock.Now().In(m.opts.Location)
}

func newMessage(role domain.Role, text string, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: at,
	}
}
