package control

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is the time source every control loop runs on. Sleep is the only point where a loop
// yields; it returns the context's error if the context ends first.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(ctx context.Context, d time.Duration) error
}

type wallClock struct {
	clock clock.Clock
}

// NewClock returns a Clock backed by the monotonic wall clock.
func NewClock() Clock {
	return &wallClock{clock: clock.New()}
}

func (c *wallClock) Now() time.Time {
	return c.clock.Now()
}

func (c *wallClock) Since(t time.Time) time.Duration {
	return c.clock.Since(t)
}

func (c *wallClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := c.clock.Timer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AdvanceHook is called after simulated time moves forward by dt.
type AdvanceHook func(dt time.Duration)

// SimClock is a Clock whose Sleep advances simulated time instead of blocking. Registered hooks
// run after every advance, which is how simulated hardware integrates motion between ticks.
type SimClock struct {
	mu    sync.Mutex
	mock  *clock.Mock
	hooks []AdvanceHook
}

// NewSimClock returns a SimClock starting at the unix epoch.
func NewSimClock() *SimClock {
	return &SimClock{mock: clock.NewMock()}
}

// Now returns the simulated time.
func (c *SimClock) Now() time.Time {
	return c.mock.Now()
}

// Since returns the simulated time elapsed since t.
func (c *SimClock) Since(t time.Time) time.Duration {
	return c.mock.Since(t)
}

// Sleep advances simulated time by d.
func (c *SimClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return ctx.Err()
}

// Advance moves simulated time forward and runs the advance hooks in registration order.
func (c *SimClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mock.Add(d)

	c.mu.Lock()
	hooks := make([]AdvanceHook, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	for _, hook := range hooks {
		hook(d)
	}
}

// OnAdvance registers a hook to run after every advance.
func (c *SimClock) OnAdvance(hook AdvanceHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Mock exposes the underlying mock clock for timers and tickers in tests.
func (c *SimClock) Mock() *clock.Mock {
	return c.mock
}
