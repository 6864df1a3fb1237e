package biosearch

import (
	"context"
	"time"
)

// DelayPolicy paces consecutive database calls.
type DelayPolicy interface {
	Wait(ctx context.Context) error
}

type FixedDelay struct {
	Interval time.Duration
}

func (d FixedDelay) Wait(ctx context.Context) error {
	if d.Interval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.Interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay is used by tests and by single-database runs.
type NoDelay struct{}

func (NoDelay) Wait(ctx context.Context) error { return ctx.Err() }
