package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Credential endpoints get a fixed-window budget per client IP. Everything
// behind a session cookie is left unthrottled.
const (
	AuthRateLimit  = 10
	AuthRateWindow = time.Minute
)

// RealIP resolves the client address for rate-limit keys and the access
// log: the first hop of X-Forwarded-For when a reverse proxy is in front,
// otherwise RemoteAddr without the port.
func RealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// window is one key's fixed window: how many requests it has spent and
// when the window lapses.
type window struct {
	count    int
	resetsAt time.Time
}

// RateLimiter counts requests per key in fixed windows, entirely in
// memory. State is lost on restart, which is acceptable for slowing down
// credential stuffing on a single-node deployment.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*window
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*window),
	}
}

// Allow spends one request from the key's current window, opening a fresh
// window when none is active. It reports whether the key is still inside
// the limit.
func (rl *RateLimiter) Allow(key string, limit int, span time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.entries[key]
	if !ok || now.After(w.resetsAt) {
		rl.entries[key] = &window{count: 1, resetsAt: now.Add(span)}
		return true
	}
	w.count++
	return w.count <= limit
}

// Cleanup drops lapsed windows. Called periodically from the main cleanup
// loop so idle keys do not accumulate.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, w := range rl.entries {
		if now.After(w.resetsAt) {
			delete(rl.entries, key)
		}
	}
}

// RateLimit rejects requests over the key's budget with a 429 JSON body.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string, limit int, span time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(keyFunc(r), limit, span) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error": "too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
