package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrent is the maximum number of in-flight calls.
	// If 0, defaults to 1.
	MaxConcurrent int64

	// RequestsPerSecond limits how often calls may start.
	// If 0, unlimited.
	RequestsPerSecond float64

	// Burst is the token bucket size for RequestsPerSecond.
	// If 0, defaults to MaxConcurrent.
	Burst int

	// MemoryLimitBytes is the hard limit for managed memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64
}

// Controller hands out call slots and memory reservations.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	slots   *semaphore.Weighted
	limiter *rate.Limiter // nil if unlimited

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.MaxConcurrent)
	}

	c := &Controller{
		cfg:   cfg,
		slots: semaphore.NewWeighted(cfg.MaxConcurrent),
	}

	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	return c
}

// MaxConcurrent returns the configured number of call slots.
func (c *Controller) MaxConcurrent() int {
	if c == nil {
		return 1
	}
	return int(c.cfg.MaxConcurrent)
}

// Acquire blocks until a call slot is free and the rate limit allows a new
// call, or ctx is done. Every successful Acquire must be paired with Release.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}

	if err := c.slots.Acquire(ctx, 1); err != nil {
		return err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.slots.Release(1)
			return err
		}
	}

	return nil
}

// Release returns a call slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.slots.Release(1)
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}
