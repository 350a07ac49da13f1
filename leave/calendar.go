/*
calendar.go - Working-day calendar

PURPOSE:
  Decides whether a calendar date is a working day. Chargeable-day
  counting and the half-day gate both depend on it.

RULES (first match wins):
  1. A recorded Holiday on the date         -> non-working
  2. Sunday                                 -> non-working
  3. Saturday in week 2 or 4 of the month   -> non-working
     (week = floor((day-1)/7) + 1)
  4. Everything else                        -> working

  Unparseable input is treated as a working day.

HOLIDAY KINDS:
  CUSTOM        An organization closure (festival, company event)
  SUNDAY        A generated record mirroring rule 2
  SATURDAY_2_4  A generated record mirroring rule 3

  The kind is informational; any record on a date makes it non-working.

EXAMPLE:
  cal := leave.NewCalendar([]leave.Holiday{
      {Date: generic.NewTimePoint(2025, time.August, 15), Name: "Independence Day", Kind: leave.HolidayCustom},
  })
  cal.IsNonWorkingDay(generic.NewTimePoint(2025, time.June, 14)) // true, 2nd Saturday
  cal.IsNonWorkingDate("2025-06-07")                             // false, 1st Saturday

SEE ALSO:
  - duration.go: Uses the calendar to price ranges
*/
package leave

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
)

// =============================================================================
// HOLIDAY
// =============================================================================

type HolidayKind string

const (
	HolidayCustom     HolidayKind = "CUSTOM"
	HolidaySunday     HolidayKind = "SUNDAY"
	HolidaySaturday24 HolidayKind = "SATURDAY_2_4"
)

// ParseHolidayKind accepts the three kinds in any case. Empty means CUSTOM.
func ParseHolidayKind(s string) (HolidayKind, error) {
	switch k := HolidayKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case "":
		return HolidayCustom, nil
	case HolidayCustom, HolidaySunday, HolidaySaturday24:
		return k, nil
	default:
		return "", fmt.Errorf("unknown holiday kind %q", s)
	}
}

// Holiday is a row of the organization's holiday table.
type Holiday struct {
	ID   string
	Date generic.TimePoint
	Name string
	Kind HolidayKind
}

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar classifies dates. It is immutable after construction and safe
// for concurrent use. A nil *Calendar has no recorded holidays.
type Calendar struct {
	holidays map[string]Holiday
}

var _ generic.HolidayCalendar = (*Calendar)(nil)

// NewCalendar indexes holidays by date. When two records share a date the
// first one wins.
func NewCalendar(holidays []Holiday) *Calendar {
	c := &Calendar{holidays: make(map[string]Holiday, len(holidays))}
	for _, h := range holidays {
		if _, exists := c.holidays[h.Date.String()]; !exists {
			c.holidays[h.Date.String()] = h
		}
	}
	return c
}

// Holiday returns the record on date, if any.
func (c *Calendar) Holiday(date generic.TimePoint) (Holiday, bool) {
	if c == nil {
		return Holiday{}, false
	}
	h, ok := c.holidays[date.String()]
	return h, ok
}

// IsHoliday implements generic.HolidayCalendar.
func (c *Calendar) IsHoliday(date generic.TimePoint) bool {
	_, ok := c.Holiday(date)
	return ok
}

// IsNonWorkingDay applies the calendar rules to date.
func (c *Calendar) IsNonWorkingDay(date generic.TimePoint) bool {
	if c.IsHoliday(date) {
		return true
	}
	_, off := WeeklyOff(date)
	return off
}

// IsNonWorkingDate is IsNonWorkingDay for a stored ISO string. Unparseable
// strings are working days.
func (c *Calendar) IsNonWorkingDate(s string) bool {
	d, err := generic.ParseDate(s)
	if err != nil {
		return false
	}
	return c.IsNonWorkingDay(d)
}

// WeeklyOff reports whether date is a Sunday or a 2nd/4th Saturday, and
// which kind of weekly off it is.
func WeeklyOff(date generic.TimePoint) (HolidayKind, bool) {
	switch date.Weekday() {
	case time.Sunday:
		return HolidaySunday, true
	case time.Saturday:
		if w := date.WeekOfMonth(); w == 2 || w == 4 {
			return HolidaySaturday24, true
		}
	}
	return "", false
}

// =============================================================================
// LISTINGS
// =============================================================================

// NonWorkingDay is one closed date with the rule that closed it.
type NonWorkingDay struct {
	Date generic.TimePoint
	Kind HolidayKind
	Name string
}

// NonWorkingDays lists every non-working date in p, in date order.
func (c *Calendar) NonWorkingDays(p generic.Period) []NonWorkingDay {
	var out []NonWorkingDay
	p.Each(func(d generic.TimePoint) {
		if h, ok := c.Holiday(d); ok {
			out = append(out, NonWorkingDay{Date: d, Kind: h.Kind, Name: h.Name})
			return
		}
		if kind, ok := WeeklyOff(d); ok {
			out = append(out, NonWorkingDay{Date: d, Kind: kind, Name: weeklyOffName(kind)})
		}
	})
	return out
}

// WorkingDays counts the working days in p.
func (c *Calendar) WorkingDays(p generic.Period) int {
	n := 0
	p.Each(func(d generic.TimePoint) {
		if !c.IsNonWorkingDay(d) {
			n++
		}
	})
	return n
}

// WeeklyOffHolidays generates the SUNDAY and SATURDAY_2_4 records for a
// year, for seeding the holiday table. IDs are left empty.
func WeeklyOffHolidays(year int) []Holiday {
	var out []Holiday
	for _, d := range generic.CalendarYear(year).Days() {
		if kind, ok := WeeklyOff(d); ok {
			out = append(out, Holiday{Date: d, Name: weeklyOffName(kind), Kind: kind})
		}
	}
	return out
}

// SortHolidays orders holidays by date, then name.
func SortHolidays(hs []Holiday) {
	sort.Slice(hs, func(i, j int) bool {
		if !hs[i].Date.Equal(hs[j].Date) {
			return hs[i].Date.Before(hs[j].Date)
		}
		return hs[i].Name < hs[j].Name
	})
}

func weeklyOffName(kind HolidayKind) string {
	if kind == HolidaySunday {
		return "Sunday"
	}
	return "Second/Fourth Saturday"
}
