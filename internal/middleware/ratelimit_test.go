package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"designhub/internal/render"
)

// fakeClock is a settable time source for the limiter.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, limit int, period time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, period)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.allow("10.0.0.1 /api/auth/login"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if ok, _ := rl.allow("10.0.0.1 /api/auth/login"); ok {
		t.Error("4th request should be rate-limited")
	}
	if ok, _ := rl.allow("10.0.0.2 /api/auth/login"); !ok {
		t.Error("another client should have its own budget")
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, time.Minute)
	key := "10.0.0.1 /api/auth/login"

	rl.allow(key)
	clock.Advance(40 * time.Second)
	rl.allow(key)

	ok, wait := rl.allow(key)
	if ok {
		t.Fatal("third hit inside the window should be rejected")
	}
	if wait != 20*time.Second {
		t.Errorf("wait = %v, want 20s until the first hit expires", wait)
	}

	clock.Advance(21 * time.Second)
	if ok, _ := rl.allow(key); !ok {
		t.Error("a slot should free up once the first hit leaves the window")
	}
	if ok, _ := rl.allow(key); ok {
		t.Error("the second hit is still inside the window")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)

	r := chi.NewRouter()
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	r.With(rl.Middleware).Post("/api/auth/login", ok)
	r.With(rl.Middleware).Post("/api/auth/2fa/verify", ok)

	post := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	before := testutil.ToFloat64(rateLimitedTotal.WithLabelValues("/api/auth/login"))

	for i := 0; i < 2; i++ {
		if rec := post("/api/auth/login"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rec.Code)
		}
	}

	rec := post("/api/auth/login")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != render.ContentTypeJSON {
		t.Errorf("Content-Type = %q, want %q", ct, render.ContentTypeJSON)
	}

	after := testutil.ToFloat64(rateLimitedTotal.WithLabelValues("/api/auth/login"))
	if after-before != 1 {
		t.Errorf("rate limited counter moved by %v, want 1", after-before)
	}

	// Exhausting login does not block 2FA verification.
	if rec := post("/api/auth/2fa/verify"); rec.Code != http.StatusOK {
		t.Errorf("verify: got %d, want 200", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for single",
			xff:        "10.0.0.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for multiple",
			xff:        "10.0.0.1, 172.16.0.1, 192.168.1.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-real-ip",
			xri:        "10.0.0.2",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.2",
		},
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.1:1234",
			want:       "192.168.1.1",
		},
		{
			name:       "remote addr no port",
			remoteAddr: "192.168.1.1",
			want:       "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			got := clientIP(req)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, 10, time.Minute)

	rl.allow("idle")
	rl.allow("busy")
	clock.Advance(90 * time.Second)
	rl.allow("busy")

	rl.cleanup()

	rl.mu.Lock()
	_, idle := rl.windows["idle"]
	_, busy := rl.windows["busy"]
	n := len(rl.windows)
	rl.mu.Unlock()

	if idle {
		t.Error("idle window should be dropped")
	}
	if !busy || n != 1 {
		t.Errorf("busy window should remain alone, have %d windows", n)
	}
}
