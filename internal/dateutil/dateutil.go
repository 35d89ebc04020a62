package dateutil

import (
	"time"

	"cloudeng.io/datetime"
)

// Grid dimensions of a month view.
const (
	MaxRows    = 6
	MaxColumns = 7
)

// Weekdays are the default weekday labels, Sunday first.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Months are the default month labels, January first.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DaysInMonth returns the number of days in the 0-indexed month of year.
// Months outside [0, 11] are folded into the adjacent years first.
func DaysInMonth(month, year int) int {
	year += floorDiv(month, 12)
	month = month - floorDiv(month, 12)*12
	return int(datetime.DaysInMonth(year, datetime.Month(month+1)))
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return datetime.IsLeap(year)
}

// Compose builds a date from a 0-indexed month the same way native date
// construction does: out-of-range days and months roll into the neighbouring
// month/year. Compose(2024, 1, 31, loc) is 2024-03-02.
func Compose(year, month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, loc)
}

// NormalizeToDate strips the clock component of t, keeping its location.
// Marked days are matched by exact instant, so callers should pass values
// through this first.
func NormalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthIndex returns the 0-indexed month of t.
func MonthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

// WeekdaysFromMonday returns labels rotated so Monday comes first. The picker
// never rotates labels on its own; hosts that start weeks on Monday pass this
// as the weekday override.
func WeekdaysFromMonday(labels []string) []string {
	if len(labels) != MaxColumns {
		labels = Weekdays
	}
	out := make([]string, 0, MaxColumns)
	out = append(out, labels[1:]...)
	return append(out, labels[0])
}

// ParseDate parses a YYYY-MM-DD string at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
