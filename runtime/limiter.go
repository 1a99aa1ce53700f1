package runtime

import (
	"sync"
	"time"
)

// RateLimitInterval is the minimum spacing between two accepted posts
// from the same connection.
const RateLimitInterval = 500 * time.Millisecond

// RateLimiter is a fixed-interval gate per connection. No bursts, no
// token bucket: a post is accepted iff at least the configured interval
// elapsed since that connection's last accepted post.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[string]time.Time
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether a post at `now` is accepted, and records `now`
// as the last accepted time when it is. Rejections leave the recorded
// time untouched.
func (l *RateLimiter) Allow(sessionID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.last[sessionID]; ok && now.Sub(last) < l.interval {
		return false
	}
	l.last[sessionID] = now
	return true
}

// Forget drops a connection's state. Rate-limit state is memory-only
// and lost on disconnect.
func (l *RateLimiter) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, sessionID)
}
