package resource

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerLimitsConcurrency(t *testing.T) {
	c := NewController(Config{MaxConcurrent: 2})
	ctx := context.Background()

	var inFlight, peak atomic.Int64
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !assert.NoError(t, c.Acquire(ctx)) {
				return
			}
			defer c.Release()

			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))
	assert.Equal(t, 2, c.MaxConcurrent())
}

func TestControllerAcquireCancelled(t *testing.T) {
	c := NewController(Config{MaxConcurrent: 1})
	require.NoError(t, c.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.Release()
	require.NoError(t, c.Acquire(context.Background()))
	c.Release()
}

func TestControllerRateLimit(t *testing.T) {
	c := NewController(Config{MaxConcurrent: 4, RequestsPerSecond: 100, Burst: 1})
	ctx := context.Background()

	start := time.Now()
	for range 4 {
		require.NoError(t, c.Acquire(ctx))
		c.Release()
	}

	// One token up front, then one every 10ms.
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestControllerMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	assert.True(t, c.TryAcquireMemory(60))
	assert.False(t, c.TryAcquireMemory(50))
	assert.Equal(t, int64(60), c.MemoryUsage())

	c.ReleaseMemory(60)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(100))
}

func TestNilController(t *testing.T) {
	var c *Controller

	require.NoError(t, c.Acquire(context.Background()))
	c.Release()
	assert.True(t, c.TryAcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, 1, c.MaxConcurrent())
}
