package highlight

import (
	"slices"
	"sync"
	"time"
)

// Set is the group of event ids currently emphasized on the map.
// A zero Deadline means nothing is scheduled to expire.
type Set struct {
	IDs      []string  `json:"ids"`
	Deadline time.Time `json:"deadline,omitzero"`
}

// Timer is the part of *time.Timer the broker needs.
type Timer interface {
	Stop() bool
}

// Clock schedules expiry callbacks. RealClock uses the runtime timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time                            { return time.Now() }
func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Broker owns the single live highlight set of one session.
//
// Every Emphasize bumps a generation counter. An expiry callback only
// clears the set if its generation is still current, so a timer that
// fires while being replaced is a no-op and at most one expiry per
// Emphasize call ever takes effect.
type Broker struct {
	mu      sync.Mutex
	clock   Clock
	current Set
	timer   Timer
	gen     uint64

	onExpire func(expired Set)
}

// NewBroker creates a broker. A nil clock means RealClock.
func NewBroker(clock Clock) *Broker {
	if clock == nil {
		clock = RealClock
	}
	return &Broker{clock: clock}
}

// OnExpire registers f to run, outside the broker lock, each time a
// set expires on its own.
func (b *Broker) OnExpire(f func(expired Set)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onExpire = f
}

// Emphasize replaces the live set with ids and restarts the expiry
// timer. Empty ids clear the emphasis and schedule nothing. A ttl <= 0
// keeps the set until the next Emphasize or Clear.
func (b *Broker) Emphasize(ids []string, ttl time.Duration) Set {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()

	if len(ids) == 0 {
		b.current = Set{IDs: []string{}}
		return b.current
	}

	next := Set{IDs: slices.Clone(ids)}
	if ttl > 0 {
		gen := b.gen
		next.Deadline = b.clock.Now().Add(ttl)
		b.timer = b.clock.AfterFunc(ttl, func() { b.expire(gen) })
	}
	b.current = next
	return next
}

// Select emphasizes a single event, as when the user picks it from a
// list or a search result.
func (b *Broker) Select(id string, ttl time.Duration) Set {
	return b.Emphasize([]string{id}, ttl)
}

// Clear cancels any pending expiry and empties the set.
func (b *Broker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.current = Set{IDs: []string{}}
}

// Current returns a copy of the emphasized ids.
func (b *Broker) Current() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current.IDs == nil {
		return []string{}
	}
	return slices.Clone(b.current.IDs)
}

// Snapshot returns a copy of the whole live set.
func (b *Broker) Snapshot() Set {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.current
	s.IDs = slices.Clone(s.IDs)
	if s.IDs == nil {
		s.IDs = []string{}
	}
	return s
}

// stopLocked cancels the pending timer and invalidates its callback.
func (b *Broker) stopLocked() {
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Broker) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	expired := b.current
	b.current = Set{IDs: []string{}}
	b.timer = nil
	b.gen++
	cb := b.onExpire
	b.mu.Unlock()

	if cb != nil {
		cb(expired)
	}
}
