package chat

import (
	"sync"
	"time"

	"github.com/dkeye/Parlor/internal/domain"
)

// MessageRateLimiter is a sliding-window limiter keyed by user
// identifier. A limit of zero disables it.
type MessageRateLimiter struct {
	mu      sync.Mutex
	history map[domain.UserID][]time.Time
	limit   int
	window  time.Duration
}

func NewMessageRateLimiter(limit int, window time.Duration) *MessageRateLimiter {
	return &MessageRateLimiter{
		history: make(map[domain.UserID][]time.Time),
		limit:   limit,
		window:  window,
	}
}

func (rl *MessageRateLimiter) Allow(uid domain.UserID) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	attempts := rl.history[uid]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[uid] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[uid] = fresh
	return true
}
