package chat

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewMessageRateLimiter(2, 50*time.Millisecond)

	if !rl.Allow("u1") || !rl.Allow("u1") {
		t.Fatalf("first two attempts must pass")
	}
	if rl.Allow("u1") {
		t.Fatalf("third attempt inside the window passed")
	}

	// Separate users have separate windows.
	if !rl.Allow("u2") {
		t.Fatalf("unrelated user was limited")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("u1") {
		t.Fatalf("attempt after the window expired was blocked")
	}
}

func TestRateLimiterZeroLimitDisabled(t *testing.T) {
	rl := NewMessageRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		if !rl.Allow("u1") {
			t.Fatalf("disabled limiter blocked attempt %d", i)
		}
	}
}
