// Package dates centralizes day-level date handling. Every comparison the
// reservation engine makes is at calendar-day granularity, so all inputs get
// truncated to UTC midnight before use.
package dates

import "time"

const Layout = "2006-01-02"

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse parses a YYYY-MM-DD string into a UTC midnight time.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// AddMonth advances by one calendar month, the default reservation span.
func AddMonth(t time.Time) time.Time {
	return Day(t).AddDate(0, 1, 0)
}

// Before reports whether a is on an earlier day than b.
func Before(a, b time.Time) bool {
	return Day(a).Before(Day(b))
}

// After reports whether a is on a later day than b.
func After(a, b time.Time) bool {
	return Day(a).After(Day(b))
}

// Within reports whether d falls inside [start, end], inclusive on both ends.
func Within(d, start, end time.Time) bool {
	d = Day(d)
	return !d.Before(Day(start)) && !d.After(Day(end))
}
