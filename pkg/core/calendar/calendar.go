package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the civil date format used throughout the application
const DateLayout = "2006-01-02"

// Day normalizes a timestamp to midnight UTC so dates compare by calendar day
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date string into a normalized day
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return Day(t), nil
}

// AddDays returns the day n days after d (n may be negative)
func AddDays(d time.Time, n int) time.Time {
	return Day(d.AddDate(0, 0, n))
}

// NextDay returns the day after d
func NextDay(d time.Time) time.Time {
	return AddDays(d, 1)
}

// DaysInclusive returns the number of calendar days in [start, end], both ends
// included. Returns 0 if end is before start.
func DaysInclusive(start, end time.Time) int {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Interval is an inclusive range of calendar days
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the interval
func (iv Interval) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(Day(iv.Start)) && !d.After(Day(iv.End))
}

// Days returns every day in the interval in ascending order
func (iv Interval) Days() []time.Time {
	var days []time.Time
	for d := Day(iv.Start); !d.After(Day(iv.End)); d = NextDay(d) {
		days = append(days, d)
	}
	return days
}
