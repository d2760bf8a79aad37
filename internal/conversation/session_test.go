package conversation

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/mapbuddy/internal/catalog"
	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
	"github.com/MrSnakeDoc/mapbuddy/internal/highlight"
	"github.com/MrSnakeDoc/mapbuddy/internal/matcher"
	"github.com/MrSnakeDoc/mapbuddy/internal/metrics"
	"github.com/MrSnakeDoc/mapbuddy/internal/reasoning"
)

// ─── test doubles ────────────────────────────────────────────────

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *fakeClock
	due   time.Time
	f     func()
	done  bool
}

// Wednesday noon.
func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) highlight.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, due: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.done
	t.done = true
	return was
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.done && !t.due.After(c.now) {
			t.done = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

type matcherFunc func(ctx context.Context, req matcher.Request) (matcher.Result, error)

func (f matcherFunc) Match(ctx context.Context, req matcher.Request) (matcher.Result, error) {
	return f(ctx, req)
}

type available bool

func (a available) Available(context.Context) bool { return bool(a) }

type prefsFunc func(ctx context.Context) (*domain.UserPreferences, error)

func (f prefsFunc) Load(ctx context.Context) (*domain.UserPreferences, error) { return f(ctx) }

// ─── fixtures ────────────────────────────────────────────────────

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]*domain.Event{
		{ID: "1", Name: "Jazz Night", Kind: domain.KindActivity, Schedule: "Every Friday", Categories: []string{"music", "jazz"}},
		{ID: "2", Name: "Street Food Market", Kind: domain.KindActivity, Schedule: "Today", Categories: []string{"food"}},
		{ID: "3", Name: "Olena", Kind: domain.KindPerson, Categories: []string{"food", "coffee"}},
		{ID: "4", Name: "Gallery Walk", Kind: domain.KindActivity, Schedule: "Every Wednesday", Categories: []string{"art"}},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

func newTestManager(t *testing.T, opts Options) (*Manager, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	if opts.Catalog == nil {
		opts.Catalog = testCatalog(t)
	}
	if opts.Heuristic == nil {
		opts.Heuristic = matcher.NewHeuristic([]string{"1", "4"})
	}
	if opts.HighlightTTL == 0 {
		opts.HighlightTTL = 5 * time.Second
	}
	opts.Location = time.UTC
	opts.Clock = clock
	return NewManager(opts), clock
}

func waitForState(t *testing.T, s *Session, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("state = %s, want %s", s.State(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

// ─── tests ───────────────────────────────────────────────────────

func TestSubmit_HeuristicHighlightsAndExpires(t *testing.T) {
	mgr, clock := newTestManager(t, Options{})
	s := mgr.NewSession()

	out, err := s.Submit(context.Background(), "I'm hungry")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Err != nil {
		t.Fatalf("outcome error: %v", out.Err)
	}
	if out.Strategy != matcher.StrategyHeuristic {
		t.Errorf("strategy = %q", out.Strategy)
	}
	want := []string{"2", "3"}
	if !slices.Equal(out.Message.CandidateIDs, want) {
		t.Errorf("candidate ids = %v, want %v", out.Message.CandidateIDs, want)
	}
	if !out.Message.Interactive {
		t.Error("reply with candidates should be interactive")
	}

	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].Role != domain.RoleUser || msgs[1].Role != domain.RoleAssistant {
		t.Fatalf("messages = %+v", msgs)
	}
	if s.State() != Idle {
		t.Errorf("state = %s, want idle", s.State())
	}
	if got := s.Highlight().IDs; !slices.Equal(got, want) {
		t.Errorf("highlight = %v, want %v", got, want)
	}
	if h := s.History(); len(h) != 2 {
		t.Errorf("history len = %d, want 2", len(h))
	}

	clock.Advance(4 * time.Second)
	if len(s.Highlight().IDs) == 0 {
		t.Fatal("highlight cleared too early")
	}
	clock.Advance(time.Second)
	if got := s.Highlight().IDs; len(got) != 0 {
		t.Errorf("highlight after ttl = %v, want empty", got)
	}
}

func TestSubmit_UsesVisibleEventsForDate(t *testing.T) {
	var seen []string
	mgr, _ := newTestManager(t, Options{
		Heuristic: matcherFunc(func(_ context.Context, req matcher.Request) (matcher.Result, error) {
			seen = catalog.IDs(req.Events)
			return matcher.Result{Reply: "ok", Strategy: matcher.StrategyHeuristic}, nil
		}),
	})
	s := mgr.NewSession()

	// Friday
	if err := s.SetDate(time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SetDate: %v", err)
	}
	if _, err := s.Submit(context.Background(), "anything"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if want := []string{"1", "2", "3"}; !slices.Equal(seen, want) {
		t.Errorf("visible = %v, want %v", seen, want)
	}
}

func TestSubmit_FailureAppendsOneErrorMessage(t *testing.T) {
	reg := prometheus.NewRegistry()
	mgr, _ := newTestManager(t, Options{
		Delegated: matcherFunc(func(context.Context, matcher.Request) (matcher.Result, error) {
			return matcher.Result{}, &reasoning.Error{Kind: reasoning.ErrInvalidCredential, Status: 401}
		}),
		Credentials: available(true),
		Metrics:     metrics.New(reg),
	})
	s := mgr.NewSession()

	out, err := s.Submit(context.Background(), "jazz tonight?")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !errors.Is(out.Err, reasoning.ErrInvalidCredential) {
		t.Fatalf("outcome err = %v", out.Err)
	}
	if out.Strategy != matcher.StrategyDelegated {
		t.Errorf("strategy = %q", out.Strategy)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[1].Text != "Invalid API key. Please check your OpenRouter API key." {
		t.Errorf("error text = %q", msgs[1].Text)
	}
	if len(s.History()) != 0 {
		t.Error("history must not change on failure")
	}
	if s.State() != Idle {
		t.Errorf("state = %s, want idle", s.State())
	}
	if got := s.LastError(); got != "invalid_credential" {
		t.Errorf("LastError = %q, want invalid_credential", got)
	}
	if got := s.View().LastError; got != "invalid_credential" {
		t.Errorf("view last error = %q", got)
	}
	if len(s.Highlight().IDs) != 0 {
		t.Error("failure must not highlight")
	}
}

func TestSubmit_StrategyFollowsCredential(t *testing.T) {
	delegated := matcherFunc(func(context.Context, matcher.Request) (matcher.Result, error) {
		return matcher.Result{Reply: "remote", Strategy: matcher.StrategyDelegated}, nil
	})

	tests := []struct {
		name  string
		avail bool
		want  string
	}{
		{"with credential", true, matcher.StrategyDelegated},
		{"without credential", false, matcher.StrategyHeuristic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, _ := newTestManager(t, Options{Delegated: delegated, Credentials: available(tt.avail)})
			if got := mgr.Mode(context.Background()); got != tt.want {
				t.Errorf("Mode = %q, want %q", got, tt.want)
			}
			out, err := mgr.NewSession().Submit(context.Background(), "hello")
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if out.Strategy != tt.want {
				t.Errorf("strategy = %q, want %q", out.Strategy, tt.want)
			}
		})
	}
}

func TestSubmit_RejectsWhileAwaitingReply(t *testing.T) {
	release := make(chan struct{})
	mgr, _ := newTestManager(t, Options{
		Heuristic: matcherFunc(func(context.Context, matcher.Request) (matcher.Result, error) {
			<-release
			return matcher.Result{Reply: "done", Strategy: matcher.StrategyHeuristic}, nil
		}),
	})
	s := mgr.NewSession()

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "first")
		done <- err
	}()
	waitForState(t, s, AwaitingReply)

	if _, err := s.Submit(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Submit err = %v, want ErrBusy", err)
	}
	if err := s.Reset(); !errors.Is(err, ErrBusy) {
		t.Errorf("Reset while pending = %v, want ErrBusy", err)
	}
	if n := len(s.Messages()); n != 1 {
		t.Errorf("messages while pending = %d, want 1", n)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if n := len(s.Messages()); n != 2 {
		t.Errorf("messages = %d, want 2", n)
	}
}

func TestSubmit_DiscardsReplyAfterClose(t *testing.T) {
	mgr, _ := newTestManager(t, Options{
		Heuristic: matcherFunc(func(ctx context.Context, _ matcher.Request) (matcher.Result, error) {
			<-ctx.Done()
			return matcher.Result{Reply: "late", CandidateIDs: []string{"1"}}, nil
		}),
	})
	s := mgr.NewSession()

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "hello")
		done <- err
	}()
	waitForState(t, s, AwaitingReply)
	s.Close()

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("Submit err = %v, want ErrClosed", err)
	}
	if n := len(s.Messages()); n != 1 {
		t.Errorf("messages = %d, want only the user message", n)
	}
	if len(s.Highlight().IDs) != 0 {
		t.Error("discarded reply must not highlight")
	}
	if _, err := s.Submit(context.Background(), "again"); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit after close = %v, want ErrClosed", err)
	}
}

func TestSubmit_EmptyInput(t *testing.T) {
	mgr, _ := newTestManager(t, Options{})
	s := mgr.NewSession()
	for _, in := range []string{"", "   ", "\n\t"} {
		if _, err := s.Submit(context.Background(), in); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Submit(%q) = %v, want ErrEmptyInput", in, err)
		}
	}
	if len(s.Messages()) != 0 {
		t.Error("empty input must not append")
	}
}

func TestSubmit_IgnoresBrokenPreferences(t *testing.T) {
	mgr, _ := newTestManager(t, Options{
		Preferences: prefsFunc(func(context.Context) (*domain.UserPreferences, error) {
			return nil, errors.New("bad json")
		}),
	})
	out, err := mgr.NewSession().Submit(context.Background(), "coffee")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !slices.Equal(out.Message.CandidateIDs, []string{"3"}) {
		t.Errorf("ids = %v", out.Message.CandidateIDs)
	}
}

func TestSession_SetDateClearsHighlight(t *testing.T) {
	mgr, _ := newTestManager(t, Options{})
	s := mgr.NewSession()

	if _, err := s.Select("4"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := s.Highlight().IDs; !slices.Equal(got, []string{"4"}) {
		t.Fatalf("highlight = %v", got)
	}
	if err := s.SetDate(time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SetDate: %v", err)
	}
	if len(s.Highlight().IDs) != 0 {
		t.Error("date change must clear highlight")
	}
	if got := s.View().Date; got != "2025-01-09" {
		t.Errorf("view date = %q", got)
	}
}

func TestSession_SetDateRefusedWhileAwaitingReply(t *testing.T) {
	release := make(chan struct{})
	mgr, _ := newTestManager(t, Options{
		Heuristic: matcherFunc(func(context.Context, matcher.Request) (matcher.Result, error) {
			<-release
			return matcher.Result{Reply: "art", CandidateIDs: []string{"4"}, Strategy: matcher.StrategyHeuristic}, nil
		}),
	})
	s := mgr.NewSession()
	wednesday := s.Date()

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "art please")
		done <- err
	}()
	waitForState(t, s, AwaitingReply)

	thursday := time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)
	if err := s.SetDate(thursday); !errors.Is(err, ErrBusy) {
		t.Fatalf("SetDate while pending = %v, want ErrBusy", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !s.Date().Equal(wednesday) {
		t.Errorf("date = %v, want unchanged %v", s.Date(), wednesday)
	}
	if got := s.Highlight().IDs; !slices.Equal(got, []string{"4"}) {
		t.Errorf("highlight = %v, want [4]", got)
	}
	if err := s.SetDate(thursday); err != nil {
		t.Fatalf("SetDate once idle: %v", err)
	}
	if len(s.Highlight().IDs) != 0 {
		t.Error("date change must clear highlight")
	}
}

func TestSession_SelectUnknown(t *testing.T) {
	mgr, _ := newTestManager(t, Options{})
	if _, err := mgr.NewSession().Select("99"); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Select = %v, want ErrUnknownEvent", err)
	}
}

func TestSession_Reset(t *testing.T) {
	mgr, _ := newTestManager(t, Options{})
	s := mgr.NewSession()
	if _, err := s.Submit(context.Background(), "art"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	v := s.View()
	if len(v.Messages) != 0 || len(s.History()) != 0 || len(v.Highlight.IDs) != 0 {
		t.Errorf("after reset: %+v", v)
	}
}

func TestSession_MessagesSnapshotIsStable(t *testing.T) {
	mgr, _ := newTestManager(t, Options{})
	s := mgr.NewSession()
	if _, err := s.Submit(context.Background(), "jazz"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	before := s.Messages()
	if _, err := s.Submit(context.Background(), "food"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(before) != 2 {
		t.Errorf("earlier snapshot grew to %d", len(before))
	}
	if len(s.Messages()) != 4 {
		t.Errorf("messages = %d, want 4", len(s.Messages()))
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid", &reasoning.Error{Kind: reasoning.ErrInvalidCredential}, "Invalid API key. Please check your OpenRouter API key."},
		{"rate limited", &reasoning.Error{Kind: reasoning.ErrRateLimited}, "Rate limit exceeded. Please try again later."},
		{"remote", &reasoning.Error{Kind: reasoning.ErrRemoteFailure, Detail: "model overloaded"}, "API Error: model overloaded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage = %q, want %q", got, tt.want)
			}
		})
	}

	if UserMessage(errors.New("boom")) == "" {
		t.Error("unknown errors still need a message")
	}
}
