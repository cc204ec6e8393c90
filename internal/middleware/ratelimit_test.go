package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/menucraft/menucraft/internal/auth"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter() (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter()
	rl.now = clock.now
	return rl, clock
}

func allowed(rl *RateLimiter, key string, limit int, d time.Duration) bool {
	ok, _ := rl.Allow(key, limit, d)
	return ok
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		if !allowed(rl, "key", 5, time.Minute) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	ok, wait := rl.Allow("key", 5, time.Minute)
	if ok {
		t.Error("6th request should be denied")
	}
	if wait != time.Minute {
		t.Errorf("retry after = %v, want 1m", wait)
	}
	if !allowed(rl, "other", 5, time.Minute) {
		t.Error("other key should be allowed")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl, clock := newTestLimiter()

	for i := 0; i < 3; i++ {
		rl.Allow("key", 3, time.Minute)
	}
	clock.t = clock.t.Add(40 * time.Second)
	ok, wait := rl.Allow("key", 3, time.Minute)
	if ok {
		t.Error("should be blocked within window")
	}
	if wait != 20*time.Second {
		t.Errorf("retry after = %v, want 20s", wait)
	}

	clock.t = clock.t.Add(20 * time.Second)
	if !allowed(rl, "key", 3, time.Minute) {
		t.Error("should be allowed after window expires")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, clock := newTestLimiter()

	rl.Allow("expired", 5, time.Second)
	clock.t = clock.t.Add(2 * time.Second)
	rl.Allow("active", 5, time.Minute)

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.windows["expired"]; ok {
		t.Error("expired window should have been cleaned up")
	}
	if _, ok := rl.windows["active"]; !ok {
		t.Error("active window should still exist")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, clock := newTestLimiter()
	handler := RateLimit(rl, ByIP, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	clock.t = clock.t.Add(45*time.Second + 500*time.Millisecond)
	req := httptest.NewRequest("POST", "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("3rd request: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if ra := rec.Header().Get("Retry-After"); ra != "15" {
		t.Errorf("Retry-After = %q, want 15", ra)
	}
}

func TestRateLimitKeys(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/ai/translate", nil)
	req.RemoteAddr = "3.3.3.3:1234"
	if got := ByOwner(req); got != "ip:3.3.3.3" {
		t.Errorf("anonymous key = %q", got)
	}
	req = req.WithContext(auth.WithOwner(req.Context(), auth.OwnerContext{OwnerID: "o1"}))
	if got := ByOwner(req); got != "owner:o1" {
		t.Errorf("owner key = %q", got)
	}

	req = httptest.NewRequest("POST", "/api/public/menus/m1/items/i1/view", nil)
	req.RemoteAddr = "3.3.3.3:1234"
	req.SetPathValue("menuId", "m1")
	if got := ByIPAndMenu(req); got != "menu:m1:3.3.3.3" {
		t.Errorf("menu key = %q", got)
	}
}

func TestRateLimitOwnersAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter()
	handler := RateLimit(rl, ByOwner, 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	send := func(owner string) int {
		req := httptest.NewRequest("POST", "/api/ai/translate", nil)
		req = req.WithContext(auth.WithOwner(req.Context(), auth.OwnerContext{OwnerID: owner}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("a"); code != http.StatusOK {
		t.Errorf("owner a first = %d", code)
	}
	if code := send("a"); code != http.StatusTooManyRequests {
		t.Errorf("owner a second = %d, want 429", code)
	}
	if code := send("b"); code != http.StatusOK {
		t.Errorf("owner b shares a's quota: %d", code)
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "3.3.3.3:1234", "1.1.1.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "2.2.2.2, 10.0.0.1"}, "3.3.3.3:1234", "2.2.2.2"},
		{"remote addr", nil, "3.3.3.3:1234", "3.3.3.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := RealIP(req); got != tt.want {
				t.Errorf("RealIP = %q, want %q", got, tt.want)
			}
		})
	}
}
