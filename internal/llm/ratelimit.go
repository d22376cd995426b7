package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/savemoney/internal/common"
)

// rateLimiter is a token bucket refilled lazily on each acquire, so it needs
// no background goroutine.
type rateLimiter struct {
	last     time.Time
	now      func() time.Time
	tokens   float64
	capacity float64
	perToken time.Duration
	mu       sync.Mutex
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	capacity := float64(requestsPerMinute)
	return &rateLimiter{
		now:      time.Now,
		last:     time.Now(),
		tokens:   capacity,
		capacity: capacity,
		perToken: time.Minute / time.Duration(requestsPerMinute),
	}
}

// tryAcquire takes a token if one is available.
func (rl *rateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if elapsed := now.Sub(rl.last); elapsed > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+float64(elapsed)/float64(rl.perToken))
		rl.last = now
	}
	if rl.tokens < 1 {
		return false
	}
	rl.tokens--
	return true
}

// rateLimitedClient rejects calls once the bucket is empty instead of waiting.
type rateLimitedClient struct {
	next    Client
	limiter *rateLimiter
}

func newRateLimitedClient(next Client, requestsPerMinute int) *rateLimitedClient {
	return &rateLimitedClient{next: next, limiter: newRateLimiter(requestsPerMinute)}
}

// Complete fails with common.ErrRateLimit when no token is available.
func (c *rateLimitedClient) Complete(ctx context.Context, req Request) (string, error) {
	if !c.limiter.tryAcquire() {
		return "", fmt.Errorf("llm request rejected: %w", common.ErrRateLimit)
	}
	return c.next.Complete(ctx, req)
}
