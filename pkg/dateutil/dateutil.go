package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in ledgers, CSV and flags.
const DateLayout = "2006-01-02"

// StartOfDay strips the time of day, keeping the date's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DiffDaysExclusive returns the whole days from start to end, end excluded.
// 1 Jul -> 31 Jul is 30. Returns 0 when end is not after start.
//
// Days are counted on calendar dates, so a DST transition between the two
// dates never shortens the count.
func DiffDaysExclusive(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(s).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// AddCalendarYears adds n years keeping month and day. A day that does not
// exist in the target month (Feb 29 in a common year) is clamped to the
// last day of that month rather than rolling into the next month.
func AddCalendarYears(t time.Time, n int) time.Time {
	year := t.Year() + n
	month := t.Month()
	day := t.Day()
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// AddDays moves a date by n calendar days, normalised to midnight.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in a given year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// ParseDate parses a YYYY-MM-DD date as local midnight in loc (local time when nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Before reports whether a's calendar date is strictly before b's.
func Before(a, b time.Time) bool {
	return DiffDaysExclusive(a, b) > 0
}
