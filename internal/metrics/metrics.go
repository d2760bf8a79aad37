package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the discovery core.
type Metrics struct {
	// Conversation metrics
	Turns        *prometheus.CounterVec // by strategy
	TurnLatency  *prometheus.HistogramVec
	TurnErrors   *prometheus.CounterVec // by error kind
	BusyRejected prometheus.Counter
	Discarded    prometheus.Counter

	// Session registry
	ActiveSessions prometheus.Gauge

	// Highlight broker
	Emphasized *prometheus.CounterVec // by source: match, select
	Expired    prometheus.Counter
}

// New registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so they never touch the global one.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Turns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mapbuddy_conversation_turns_total",
			Help: "Conversation turns processed, by matching strategy",
		}, []string{"strategy"}),

		TurnLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mapbuddy_conversation_turn_duration_seconds",
			Help:    "Time spent matching a user message",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"strategy"}),

		TurnErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mapbuddy_conversation_errors_total",
			Help: "Failed conversation turns, by error kind",
		}, []string{"kind"}),

		BusyRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "mapbuddy_conversation_busy_rejections_total",
			Help: "Messages dropped because a reply was still pending",
		}),

		Discarded: f.NewCounter(prometheus.CounterOpts{
			Name: "mapbuddy_conversation_discarded_replies_total",
			Help: "Replies that arrived after their session was closed",
		}),

		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "mapbuddy_sessions_active",
			Help: "Number of live sessions",
		}),

		Emphasized: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mapbuddy_highlight_emphasize_total",
			Help: "Highlight sets emphasized, by source",
		}, []string{"source"}),

		Expired: f.NewCounter(prometheus.CounterOpts{
			Name: "mapbuddy_highlight_expired_total",
			Help: "Highlight sets that expired on their own",
		}),
	}
}

// The helpers below are no-ops on a nil *Metrics so components can run
// without instrumentation.

func (m *Metrics) TurnDone(strategy string, d time.Duration) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(strategy).Inc()
	m.TurnLatency.WithLabelValues(strategy).Observe(d.Seconds())
}

func (m *Metrics) TurnFailed(kind string) {
	if m == nil {
		return
	}
	m.TurnErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) Busy() {
	if m != nil {
		m.BusyRejected.Inc()
	}
}

func (m *Metrics) Discard() {
	if m != nil {
		m.Discarded.Inc()
	}
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.ActiveSessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}

func (m *Metrics) Emphasize(source string) {
	if m != nil {
		m.Emphasized.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) Expire() {
	if m != nil {
		m.Expired.Inc()
	}
}
