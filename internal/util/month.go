package util

import (
	"fmt"
	"time"
)

// MonthKeyLayout is the layout of report month keys ("2024-03")
const MonthKeyLayout = "2006-01"

// locationOrUTC returns loc, or UTC when loc is nil
func locationOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// MonthKey returns the "YYYY-MM" bucket of t in the given location
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(locationOrUTC(loc)).Format(MonthKeyLayout)
}

// ParseMonthKey parses a "YYYY-MM" key into its first instant in loc
func ParseMonthKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(MonthKeyLayout, key, locationOrUTC(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t, nil
}

// StartOfDay returns midnight of t's date in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(locationOrUTC(loc))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's date in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(locationOrUTC(loc))
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// StartOfMonth returns midnight of the first day of t's month in loc
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(locationOrUTC(loc))
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ElapsedMonths returns the number of whole calendar months from `from` to `to`.
// A month only counts once the same day-of-month and clock time is reached.
// Returns 0 when to is before from.
func ElapsedMonths(from, to time.Time) int {
	from = from.UTC()
	to = to.UTC()
	if !to.After(from) {
		return 0
	}

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if from.AddDate(0, months, 0).After(to) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
