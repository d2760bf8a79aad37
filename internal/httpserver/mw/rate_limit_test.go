package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60})
	now := time.Now()

	for i := range 2 {
		if ok, _, _ := l.allow("1.2.3.4", now); !ok {
			t.Fatalf("request %d rejected inside burst", i)
		}
	}
	ok, _, retry := l.allow("1.2.3.4", now)
	if ok {
		t.Fatal("third request should be limited")
	}
	if retry <= 0 || retry > time.Second {
		t.Errorf("retry = %v, want within 1s", retry)
	}

	if ok, _, _ := l.allow("5.6.7.8", now); !ok {
		t.Error("other clients have their own bucket")
	}
	if ok, _, _ := l.allow("1.2.3.4", now.Add(time.Second)); !ok {
		t.Error("token should refill after a second")
	}
}

func TestLimiterSweep(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, IdleTTL: time.Minute, SweepInterval: time.Minute})
	now := time.Now()
	l.allow("a", now)
	l.allow("b", now.Add(2*time.Minute))

	if _, ok := l.visitors["a"]; ok {
		t.Error("idle visitor should be swept")
	}
	if _, ok := l.visitors["b"]; !ok {
		t.Error("active visitor must stay")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := do()
	if first.Code != http.StatusNoContent {
		t.Fatalf("first status = %d", first.Code)
	}
	if got := first.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Errorf("X-RateLimit-Limit = %q", got)
	}

	second := do()
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("429 needs Retry-After")
	}
}
