package sim

import (
	"context"
	"time"
)

// Pacer spaces out enemy turns so battle narration reads at a human pace.
// A zero delay disables pacing entirely.
type Pacer struct {
	delay time.Duration
}

// NewPacer creates a Pacer with the given think delay.
//
// Precondition: delay >= 0.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks for the configured delay or until ctx is cancelled.
//
// Postcondition: Returns nil after a full delay, or the context's error on
// early cancellation.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
