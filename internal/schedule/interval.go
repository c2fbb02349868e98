package schedule

import (
	"strings"
	"time"
)

// TimeLayout is the local date-time format accepted at the API boundary.
// Values carry no zone and are treated as naive wall-clock instants.
const TimeLayout = "2006-01-02T15:04"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether [startA, endA) and [startB, endB) share any instant.
// Intervals that only touch at a boundary do not overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// Contains reports whether [start, end) lies entirely inside [windowStart, windowEnd).
func Contains(windowStart, windowEnd, start, end time.Time) bool {
	return !start.Before(windowStart) && !windowEnd.Before(end)
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

func (i Interval) Contains(other Interval) bool {
	return Contains(i.Start, i.End, other.Start, other.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// WallClock drops t's zone and keeps its local reading, so it compares with
// stored naive instants.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ParseTime parses a TimeLayout value as a naive instant.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, strings.TrimSpace(s), time.UTC)
}

// ParseInterval parses both endpoints and requires start < end.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseTime(start)
	if err != nil {
		return Interval{}, ErrInvalidTimeRange
	}
	e, err := ParseTime(end)
	if err != nil {
		return Interval{}, ErrInvalidTimeRange
	}

	iv := Interval{Start: s, End: e}
	if !iv.Valid() {
		return Interval{}, ErrInvalidTimeRange
	}
	return iv, nil
}
