package kernel

import "time"

// Clock abstracts the process-wide time source. All lateness, expiry and
// "window still in the future" decisions take a Clock instead of calling
// time.Now directly, so scheduled transitions stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// NewSystemClock creates a Clock that reads the real wall clock.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock pinned to a single instant. Intended for tests.
type FixedClock struct {
	Instant time.Time
}

// NewFixedClock creates a Clock that always reports the given instant.
func NewFixedClock(instant time.Time) FixedClock {
	return FixedClock{Instant: instant}
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}
