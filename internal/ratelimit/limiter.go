package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter gates calls to an external site. Wait blocks until the next call is allowed.
type Limiter interface {
	Wait(ctx context.Context) error
}

// IntervalGate enforces a minimum interval between calls
type IntervalGate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewIntervalGate creates a new gate allowing one call per interval.
// Construction counts as a call, so the first fetch also waits the interval.
func NewIntervalGate(interval time.Duration) *IntervalGate {
	return newIntervalGate(interval, time.Now, sleepContext)
}

func newIntervalGate(interval time.Duration, now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) *IntervalGate {
	return &IntervalGate{
		interval: interval,
		last:     now(),
		now:      now,
		sleep:    sleep,
	}
}

// Wait blocks until interval has passed since the previous call returned
func (g *IntervalGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if remaining := g.interval - g.now().Sub(g.last); remaining > 0 {
		if err := g.sleep(ctx, remaining); err != nil {
			return err
		}
	}

	g.last = g.now()
	return nil
}

// Noop never blocks
type Noop struct{}

// Wait returns immediately unless ctx is already done
func (Noop) Wait(ctx context.Context) error {
	return ctx.Err()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
