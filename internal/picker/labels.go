package picker

import "calpicker/internal/dateutil"

// WeekdayLabels returns the header label row. The order is used as given,
// even when the grid starts on Monday.
func WeekdayLabels(override []string) []string {
	src := dateutil.Weekdays
	if override != nil {
		src = override
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
