package batch

import (
	"context"
	"time"
)

// Throttle is the named inter-request delay policy the orchestrator applies
// between students. The upstream model is rate limited; spacing requests out
// is the backpressure mechanism, so the delay is part of the contract rather
// than an inline sleep.
type Throttle struct {
	delay time.Duration
}

func NewThrottle(delay time.Duration) *Throttle {
	if delay < 0 {
		delay = 0
	}
	return &Throttle{delay: delay}
}

func (t *Throttle) Delay() time.Duration { return t.delay }

// Wait blocks for the fixed delay or until ctx is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	if t.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
