package domain

import (
	"fmt"
	"time"
)

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
// Intervals that only touch (one ends exactly when the other starts) do not overlap.
// This is the only overlap predicate used for conflict detection.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval starting at start and lasting the given minutes.
func NewInterval(start time.Time, minutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

// Valid returns true if End is strictly after Start
func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Minutes returns the duration in whole minutes
func (i Interval) Minutes() int {
	return int(i.Duration() / time.Minute)
}

// Shift moves both ends by d
func (i Interval) Shift(d time.Duration) Interval {
	return Interval{Start: i.Start.Add(d), End: i.End.Add(d)}
}

// In converts both ends to loc
func (i Interval) In(loc *time.Location) Interval {
	return Interval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

// String renders the interval as "2006-01-02 15:04-15:04" for operator-facing messages
func (i Interval) String() string {
	if i.Start.Format(DateFormat) == i.End.Format(DateFormat) {
		return fmt.Sprintf("%s %s-%s", i.Start.Format(DateFormat), i.Start.Format(TimeFormat), i.End.Format(TimeFormat))
	}
	return fmt.Sprintf("%s %s - %s %s",
		i.Start.Format(DateFormat), i.Start.Format(TimeFormat),
		i.End.Format(DateFormat), i.End.Format(TimeFormat))
}
