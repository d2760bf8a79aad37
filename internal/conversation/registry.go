package conversation

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/MrSnakeDoc/mapbuddy/internal/logger"
)

// Registry keeps live sessions. Sessions left alone for the TTL are
// evicted and closed.
type Registry struct {
	mgr   *Manager
	cache *cache.Cache
	log   logger.Logger
}

func NewRegistry(mgr *Manager, ttl time.Duration) *Registry {
	cleanup := max(ttl/2, time.Second)
	r := &Registry{
		mgr:   mgr,
		cache: cache.New(ttl, cleanup),
		log:   mgr.opts.Logger,
	}
	r.cache.OnEvicted(r.evicted)
	return r
}

func (r *Registry) Create() *Session {
	s := r.mgr.NewSession()
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
	r.mgr.opts.Metrics.SessionOpened()
	r.log.Debug("session opened", logger.String("session", s.ID))
	return s
}

// Get returns a live session and pushes its expiry back.
func (r *Registry) Get(id string) (*Session, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	if s.Closed() {
		return nil, false
	}
	r.cache.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// Delete closes and forgets a session.
func (r *Registry) Delete(id string) bool {
	if _, ok := r.cache.Get(id); !ok {
		return false
	}
	r.cache.Delete(id)
	return true
}

func (r *Registry) Len() int {
	return r.cache.ItemCount()
}

// Close tears down every session.
func (r *Registry) Close() {
	for id := range r.cache.Items() {
		r.cache.Delete(id)
	}
}

func (r *Registry) evicted(id string, v interface{}) {
	s, ok := v.(*Session)
	if !ok {
		return
	}
	s.Close()
	r.mgr.opts.Metrics.SessionClosed()
	r.log.Debug("session closed", logger.String("session", id))
}
