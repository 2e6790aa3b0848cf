package dateutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISOLayout is the canonical calendar date format (YYYY-MM-DD).
	ISOLayout = "2006-01-02"
	// APILayout is the NAV API's date format (DD-MM-YYYY).
	APILayout = "02-01-2006"

	// DaysPerYear is the year-fraction convention used for CAGR.
	DaysPerYear = 365.25
)

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate accepts YYYY-MM-DD or DD-MM-YYYY and returns the date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ISOLayout, APILayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or DD-MM-YYYY", s)
}

// FormatISO renders t as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// AddMonthsClamped adds months to date, clamping the day-of-month to the end
// of the target month instead of rolling over (Jan 31 + 1 month = Feb 28/29).
// time.AddDate would normalize Jan 31 + 1 month to Mar 2/3.
func AddMonthsClamped(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	total := int(m) - 1 + months
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	month := time.Month(total + 1)
	if last := DaysInMonth(y, month); d > last {
		d = last
	}
	hh, mm, ss := date.Clock()
	return time.Date(y, month, d, hh, mm, ss, date.Nanosecond(), date.Location())
}

// AddYears adds whole years using the same clamping rule as AddMonthsClamped
// (Feb 29 + 1 year = Feb 28).
func AddYears(date time.Time, years int) time.Time {
	return AddMonthsClamped(date, 12*years)
}

// MonthlyDates returns start, start+1 month, start+2 months, ... up to and
// including the last date not after end. Every date is derived from start, so
// a schedule starting on the 31st lands on the last day of short months and
// returns to the 31st afterwards. The result is empty when start is after end.
func MonthlyDates(start, end time.Time) []time.Time {
	var dates []time.Time
	for n := 0; ; n++ {
		d := AddMonthsClamped(start, n)
		if d.After(end) {
			return dates
		}
		dates = append(dates, d)
	}
}

// AnniversariesElapsed counts the 12-month anniversaries of start that fall
// strictly before date. An anniversary landing exactly on date is not counted.
func AnniversariesElapsed(start, date time.Time) int {
	count := 0
	for AddYears(start, count+1).Before(date) {
		count++
	}
	return count
}

// YearsBetween returns the elapsed time between two dates in years of 365.25 days.
func YearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24 / DaysPerYear
}
