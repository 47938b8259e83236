package market

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket: capacity tokens, one refilled every
// interval. It protects the tightly limited single-symbol provider.
// Consumption is non-blocking: an exhausted bucket is reported to the
// caller, never waited out, so a drained budget costs a request path
// nothing.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	capacity int
	interval time.Duration
	last     time.Time
}

// NewRateLimiter allows capacity requests per interval window.
func NewRateLimiter(capacity int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   capacity,
		capacity: capacity,
		interval: interval,
		last:     time.Now(),
	}
}

// Allow consumes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// refill credits tokens for elapsed whole intervals. Caller holds mu.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.last)
	if elapsed < rl.interval {
		return
	}
	n := int(elapsed / rl.interval)
	rl.tokens += n
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
	rl.last = rl.last.Add(time.Duration(n) * rl.interval)
}
