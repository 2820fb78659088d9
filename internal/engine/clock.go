package engine

import (
	"context"
	"time"
)

// Clock abstracts time so sweep pacing and refresh cadence are testable
// without real delays.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until the context is canceled, returning the
	// context's error in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
