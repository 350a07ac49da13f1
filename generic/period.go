package generic

import "time"

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is a closed range of calendar dates [Start, End].
//
// Examples:
//   - Calendar year 2025: Jan 1 - Dec 31
//   - First half 2025: Jan 1 - Jun 30
//   - A leave application: its start date through its end date
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod builds a period, rejecting an end before the start.
func NewPeriod(start, end TimePoint) (Period, error) {
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// SingleDay is the period covering exactly one date.
func SingleDay(d TimePoint) Period {
	return Period{Start: d, End: d}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether the two closed ranges share at least one date.
// Touching endpoints count: [Jun 10, Jun 12] overlaps [Jun 12, Jun 14].
func (p Period) Overlaps(other Period) bool {
	return other.Start.BeforeOrEqual(p.End) && other.End.AfterOrEqual(p.Start)
}

// Len is the number of calendar days in the period, both ends included.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Each calls fn for every day in the period, in order.
func (p Period) Each(fn func(TimePoint)) {
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		fn(current)
	}
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	days := make([]TimePoint, 0, p.Len())
	p.Each(func(d TimePoint) { days = append(days, d) })
	return days
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// HALF-YEAR WINDOWS
// =============================================================================

// Half identifies one of the two six-month windows of a calendar year.
type Half int

const (
	FirstHalf  Half = 1 // January - June
	SecondHalf Half = 2 // July - December
)

func (h Half) String() string {
	if h == FirstHalf {
		return "H1"
	}
	return "H2"
}

// HalfOf returns which half of its year the date falls in.
func HalfOf(d TimePoint) Half {
	if d.Month() <= time.June {
		return FirstHalf
	}
	return SecondHalf
}

// HalfYear returns the period covering the given half of year.
func HalfYear(year int, h Half) Period {
	if h == FirstHalf {
		return Period{Start: StartOfYear(year), End: EndOfMonth(year, time.June)}
	}
	return Period{Start: StartOfMonth(year, time.July), End: EndOfYear(year)}
}

// CalendarYear returns Jan 1 - Dec 31 of year.
func CalendarYear(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}
