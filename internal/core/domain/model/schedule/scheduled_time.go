package schedule

import (
	"fmt"
	"time"

	"tutam/internal/pkg/errs"
)

const dayLength = 24 * time.Hour

// ErrScheduledTimeIsNotConstructed indicates that a ScheduledTime was not created
// through NewScheduledTime. The zero value is invalid.
var ErrScheduledTimeIsNotConstructed = errs.NewValueIsRequiredError(
	"ScheduledTime must be created via NewScheduledTime",
)

// ScheduledTime is a value object describing one candidate slot during which a
// pickup or delivery may occur: a calendar day plus a start and end time of day.
//
// Two ScheduledTime values are equal exactly when day, start and end all match.
// The absolute interval covered by the slot is derived by composing the day with
// the two times of day, see Interval.
type ScheduledTime struct {
	// day is the calendar date, normalized to midnight in its own location.
	day time.Time

	// start and end are offsets from midnight of day. start < end ≤ 24h.
	start time.Duration
	end   time.Duration

	isSet bool
}

// NewScheduledTime creates a validated ScheduledTime.
//
// Parameters:
//   - day: the calendar date; any time-of-day component is truncated
//   - start, end: offsets from midnight, with 0 ≤ start < end ≤ 24h
//
// Returns a ValueIsInvalidError when the day is the zero time or the offsets
// do not describe a non-empty slot inside one day.
func NewScheduledTime(day time.Time, start, end time.Duration) (ScheduledTime, error) {
	if day.IsZero() {
		return ScheduledTime{}, errs.NewValueIsRequiredError("day")
	}

	if start < 0 || end > dayLength || start >= end {
		return ScheduledTime{}, errs.NewValueIsInvalidErrorWithCause(
			"scheduled time",
			fmt.Errorf("[%s, %s) is not a valid slot within one day", start, end),
		)
	}

	year, month, dayOfMonth := day.Date()
	return ScheduledTime{
		day:   time.Date(year, month, dayOfMonth, 0, 0, 0, 0, day.Location()),
		start: start,
		end:   end,
		isSet: true,
	}, nil
}

// Day returns the calendar date of the slot, at midnight.
func (s ScheduledTime) Day() time.Time {
	return s.day
}

// StartOffset returns the slot start as an offset from midnight.
func (s ScheduledTime) StartOffset() time.Duration {
	return s.start
}

// EndOffset returns the slot end as an offset from midnight.
func (s ScheduledTime) EndOffset() time.Duration {
	return s.end
}

// Interval returns the absolute half-open interval [start, end) covered by the slot.
func (s ScheduledTime) Interval() Interval {
	return Interval{
		Start: s.day.Add(s.start),
		End:   s.day.Add(s.end),
	}
}

// Duration returns the length of the slot.
func (s ScheduledTime) Duration() time.Duration {
	return s.end - s.start
}

// IsEqual compares two slots by exact day, start and end.
func (s ScheduledTime) IsEqual(other ScheduledTime) bool {
	return s.day.Equal(other.day) && s.start == other.start && s.end == other.end
}

// IsPast reports whether the slot has entirely ended at the given instant.
// A slot whose end equals now is considered past (the interval is half-open).
func (s ScheduledTime) IsPast(now time.Time) bool {
	return !s.Interval().End.After(now)
}

// Validate checks that the slot was created via NewScheduledTime.
func (s ScheduledTime) Validate() error {
	if !s.isSet {
		return ErrScheduledTimeIsNotConstructed
	}
	return nil
}

// String renders the slot as "2006-01-02 15:04-17:04" for logging.
func (s ScheduledTime) String() string {
	iv := s.Interval()
	return fmt.Sprintf("%s %s-%s",
		s.day.Format("2006-01-02"),
		iv.Start.Format("15:04"),
		iv.End.Format("15:04"),
	)
}
