package llm

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/savemoney/internal/common"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time          { return c.t }
func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func frozenLimiter(rpm int) (*rateLimiter, *stepClock) {
	clock := &stepClock{t: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(rpm)
	rl.now = clock.now
	rl.last = clock.t
	return rl, clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("acquires up to capacity then refills", func(t *testing.T) {
		rl, clock := frozenLimiter(3)

		assert.True(t, rl.tryAcquire())
		assert.True(t, rl.tryAcquire())
		assert.True(t, rl.tryAcquire())
		assert.False(t, rl.tryAcquire())

		clock.advance(10 * time.Second)
		assert.False(t, rl.tryAcquire())

		clock.advance(10 * time.Second)
		assert.True(t, rl.tryAcquire())
		assert.False(t, rl.tryAcquire())
	})

	t.Run("refill never exceeds capacity", func(t *testing.T) {
		rl, clock := frozenLimiter(2)
		clock.advance(time.Hour)

		assert.True(t, rl.tryAcquire())
		assert.True(t, rl.tryAcquire())
		assert.False(t, rl.tryAcquire())
	})

	t.Run("default rate", func(t *testing.T) {
		rl := newRateLimiter(0)
		assert.InDelta(t, 60.0, rl.capacity, 0)
		assert.Equal(t, time.Second, rl.perToken)
	})

	t.Run("concurrent acquire never exceeds capacity", func(t *testing.T) {
		rl, _ := frozenLimiter(10)

		var acquired int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.tryAcquire() {
					atomic.AddInt32(&acquired, 1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(10), atomic.LoadInt32(&acquired))
	})
}

func TestRateLimitedClient_FailsFast(t *testing.T) {
	mock := &MockClient{Responses: []string{"ok"}}
	client := newRateLimitedClient(mock, 1)

	got, err := client.Complete(context.Background(), Request{Prompt: "a"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	_, err = client.Complete(context.Background(), Request{Prompt: "b"})
	require.ErrorIs(t, err, common.ErrRateLimit)
	assert.Len(t, mock.Requests(), 1)
}
