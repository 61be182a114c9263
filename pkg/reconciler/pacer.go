package reconciler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks before a lookup so consecutive lookups stay under the
// lookup service's request rate.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a pacer that lets the first lookup through at once and
// spaces every following lookup at least delay after the previous one.
// A zero delay returns a pacer that never blocks.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return noPacer{}
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

type noPacer struct{}

func (noPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
