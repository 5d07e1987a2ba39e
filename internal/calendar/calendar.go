// Package calendar provides the month arithmetic used by rent schedules and
// the calendar-year windows used by expense aggregation.
package calendar

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month. Month is expected to be 1-12 but is
// not validated.
type YearMonth struct {
	Year  int
	Month int
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Next advances one month, rolling the year once the month passes 12.
func (ym YearMonth) Next() YearMonth {
	ym.Month++
	if ym.Month > 12 {
		ym.Month = 1
		ym.Year++
	}
	return ym
}

// After reports whether ym is strictly later than other.
func (ym YearMonth) After(other YearMonth) bool {
	return ym.Year > other.Year || (ym.Year == other.Year && ym.Month > other.Month)
}

// Range returns every month from start through end inclusive. It is empty
// when start is after end.
func Range(start, end YearMonth) []YearMonth {
	var months []YearMonth
	for ym := start; !ym.After(end); ym = ym.Next() {
		months = append(months, ym)
	}
	return months
}

// DueDate builds midnight of the given day in the given month. A day past the
// end of the month rolls into the following month (April 31 is May 1).
func DueDate(ym YearMonth, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(ym.Year, time.Month(ym.Month), day, 0, 0, 0, 0, loc)
}

// YearWindow returns [Jan 1 of now's year, Jan 1 of the next year) in now's
// location.
func YearWindow(now time.Time) (time.Time, time.Time) {
	return Year(now.Year(), now.Location())
}

// Year returns [Jan 1 of year, Jan 1 of year+1) in loc.
func Year(year int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}
