package generic

import (
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date at day granularity
// =============================================================================

// DateLayout is the ISO calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// TimePoint is a calendar date. The time-of-day part is always midnight UTC,
// so two TimePoints for the same date compare equal.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar date in t's own location.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses an ISO date ("2025-06-02"). Surrounding whitespace is
// ignored; anything after a 'T' (a timestamp) is dropped so stored
// datetimes still resolve to their date.
func ParseDate(s string) (TimePoint, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, ErrInvalidDate
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddYears(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(n, 0, 0)}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// WeekOfMonth numbers the 7-day blocks of a month from 1: days 1-7 are
// week 1, 8-14 week 2, and so on up to week 5.
func (tp TimePoint) WeekOfMonth() int {
	return (tp.Day()-1)/7 + 1
}

// MonthsAfter reports how many calendar months tp lies after other
// (negative when before). Day of month is ignored.
func (tp TimePoint) MonthsAfter(other TimePoint) int {
	return (tp.Year()-other.Year())*12 + int(tp.Month()) - int(other.Month())
}

func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// MarshalText encodes the date as YYYY-MM-DD (JSON and YAML).
func (tp TimePoint) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

func (tp *TimePoint) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR - Organization-specific closures
// =============================================================================

// HolidayCalendar answers whether an organization recorded a closure on a date.
// Weekly-off rules are layered on top by the domain calendar.
type HolidayCalendar interface {
	IsHoliday(date TimePoint) bool
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// DaysBetween returns to - from in whole days.
func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }

func StartOfYear(year int) TimePoint                    { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint                      { return NewTimePoint(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }
func EndOfMonth(year int, month time.Month) TimePoint {
	return FromTime(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}
