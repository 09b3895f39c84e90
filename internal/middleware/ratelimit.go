package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration

	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP. Only
	// enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// NewRateLimiter allows limit requests per window for each IP, refilled evenly.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	ttl := window * 2 // Keep idle visitors for 2x window
	if ttl < time.Minute {
		ttl = time.Minute
	}

	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		ttl:      ttl,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[ip]
	if !ok {
		// First request from this IP starts with a full bucket
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// Cleanup drops visitors idle for longer than ttl.
func (rl *RateLimiter) Cleanup() {
	rl.cleanup(time.Now())
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, v := range rl.visitors {
		// An idle visitor's bucket has refilled, so forgetting it is lossless
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
		}
	}
}

// StartCleanup runs Cleanup every interval in a background goroutine.
// A non-positive interval falls back to the idle ttl.
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		interval = rl.ttl
	}
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			rl.Cleanup()
		}
	}()
}

// Limit rejects requests over the limit with 429.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Socket address unless proxy headers are trusted
		ip := rl.clientIP(r)

		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded",
				"ip", ip,
				"path", r.URL.Path,
			)
			writeDetail(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}

		next(w, r)
	}
}

func (rl *RateLimiter) clientIP(r *http.Request) string {
	// Forwarding headers are client-controlled unless a proxy rewrites them
	if rl.TrustProxyHeaders {
		xff := r.Header.Get("X-Forwarded-For")
		if xff != "" {
			// Take first IP in list
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}

		xri := r.Header.Get("X-Real-IP")
		if xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	// Remove port if present
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
