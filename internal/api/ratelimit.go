package api

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter implements a sliding window rate limiter
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	cleanup  time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		cleanup:  time.Now(),
	}
}

// Allow checks if a request from the given key is allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	if now.Sub(rl.cleanup) > time.Minute {
		for k, times := range rl.requests {
			filtered := filterTimes(times, windowStart)
			if len(filtered) == 0 {
				delete(rl.requests, k)
			} else {
				rl.requests[k] = filtered
			}
		}
		rl.cleanup = now
	}

	times := rl.requests[key]
	times = filterTimes(times, windowStart)

	if len(times) >= rl.limit {
		return false
	}

	rl.requests[key] = append(times, now)
	return true
}

func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

func retryAfterSeconds(window time.Duration) int {
	secs := int(math.Ceil(window.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// RateLimitMiddleware creates a middleware that rate limits by client IP,
// resolved through the trusted-proxy-aware resolver.
func RateLimitMiddleware(limiter *RateLimiter, resolver *ClientIPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(resolver.Resolve(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(limiter.window)))
				writeError(w, http.StatusTooManyRequests, ErrCodeRateLimitExceeded, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
