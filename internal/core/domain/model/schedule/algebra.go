// Package schedule provides the time-window value object and the pure interval
// algebra the scheduling engine is built on: window overlap, intersection, and
// first/last availability relative to an injected clock.
//
// Windows entirely in the past are invisible to every selection operation in
// this package; callers never see them from FirstAvailable or LastAvailable.
package schedule

import "time"

// Interval is an absolute half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval. Negative for inverted intervals.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Intersect returns the overlap of two intervals.
// The second return value is false when the intervals do not overlap
// (touching endpoints do not count, the ranges are half-open).
func (i Interval) Intersect(other Interval) (Interval, bool) {
	start := i.Start
	if other.Start.After(start) {
		start = other.Start
	}

	end := i.End
	if other.End.Before(end) {
		end = other.End
	}

	if !start.Before(end) {
		return Interval{}, false
	}

	return Interval{Start: start, End: end}, true
}

// Overlap returns the intersection of two windows' absolute intervals.
// The operation is symmetric: Overlap(a, b) always equals Overlap(b, a).
//
// Callers decide whether an intersection counts as "compatible" by comparing
// its duration against a configured minimum threshold; the comparison is
// inclusive at the threshold.
func Overlap(a, b ScheduledTime) (Interval, bool) {
	return a.Interval().Intersect(b.Interval())
}

// FirstAvailable returns the earliest window whose end is still in the future
// at the given instant. Ties on end are broken by the earliest start.
// The second return value is false when every window has already passed.
func FirstAvailable(windows []ScheduledTime, now time.Time) (ScheduledTime, bool) {
	var (
		best  ScheduledTime
		found bool
	)

	for _, w := range windows {
		if w.IsPast(now) {
			continue
		}

		if !found {
			best = w
			found = true
			continue
		}

		bi, wi := best.Interval(), w.Interval()
		if wi.End.Before(bi.End) || (wi.End.Equal(bi.End) && wi.Start.Before(bi.Start)) {
			best = w
		}
	}

	return best, found
}

// LastAvailable returns the latest window still in the future at the given
// instant: the one with the greatest end, ties broken by the latest start.
// The second return value is false when every window has already passed.
func LastAvailable(windows []ScheduledTime, now time.Time) (ScheduledTime, bool) {
	var (
		best  ScheduledTime
		found bool
	)

	for _, w := range windows {
		if w.IsPast(now) {
			continue
		}

		if !found {
			best = w
			found = true
			continue
		}

		bi, wi := best.Interval(), w.Interval()
		if wi.End.After(bi.End) || (wi.End.Equal(bi.End) && wi.Start.After(bi.Start)) {
			best = w
		}
	}

	return best, found
}

// HasFutureWindow reports whether at least one window is still usable at the
// given instant. Requests without any future window are out of date and are
// expired instead of batched.
func HasFutureWindow(windows []ScheduledTime, now time.Time) bool {
	for _, w := range windows {
		if !w.IsPast(now) {
			return true
		}
	}
	return false
}
