package picker

import (
	"time"

	"calpicker/internal/dateutil"
)

// Grid is the month matrix, rows top to bottom, columns left to right.
type Grid [dateutil.MaxRows][dateutil.MaxColumns]DayCell

// GridInput is everything BuildGrid needs. Month is 0-indexed. SelectedDay
// of zero selects nothing.
type GridInput struct {
	Month           int
	Year            int
	SelectedDay     int
	MinDate         time.Time
	MaxDate         time.Time
	MarkedDays      []time.Time
	StartFromMonday bool
	Location        *time.Location
}

// FirstSlot returns the index of the slot holding day 1.
func FirstSlot(month, year int, startFromMonday bool, loc *time.Location) int {
	anchor := dateutil.Compose(year, month, 1, loc)
	if startFromMonday {
		// The weekday of the day before the 1st is the offset when the week
		// starts on Monday.
		anchor = dateutil.Compose(year, month, 0, loc)
	}
	return int(anchor.Weekday())
}

// BuildGrid lays the displayed month out on 42 slots.
func BuildGrid(in GridInput) Grid {
	var g Grid

	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	first := FirstSlot(in.Month, in.Year, in.StartFromMonday, loc)
	days := dateutil.DaysInMonth(in.Month, in.Year)

	for slot := 0; slot < dateutil.MaxRows*dateutil.MaxColumns; slot++ {
		day := slot - first + 1
		if day < 1 || day > days {
			continue
		}
		date := dateutil.Compose(in.Year, in.Month, day, loc)
		g[slot/dateutil.MaxColumns][slot%dateutil.MaxColumns] = DayCell{
			Day:      day,
			Date:     date,
			Selected: day == in.SelectedDay,
			Marked:   isMarked(date, in.MarkedDays),
			Enabled:  inRange(date, in.MinDate, in.MaxDate),
		}
	}
	return g
}

// Cells returns the grid in row-major order.
func (g Grid) Cells() []DayCell {
	out := make([]DayCell, 0, dateutil.MaxRows*dateutil.MaxColumns)
	for _, row := range g {
		out = append(out, row[:]...)
	}
	return out
}

// Find returns the cell holding day, if any.
func (g Grid) Find(day int) (DayCell, bool) {
	if day < 1 {
		return DayCell{}, false
	}
	for _, row := range g {
		for _, c := range row {
			if c.Day == day {
				return c, true
			}
		}
	}
	return DayCell{}, false
}

func inRange(date, minDate, maxDate time.Time) bool {
	if !minDate.IsZero() && date.Before(minDate) {
		return false
	}
	if !maxDate.IsZero() && date.After(maxDate) {
		return false
	}
	return true
}

// isMarked compares by instant. A marked value with a clock component never
// matches a grid day, which is always at midnight.
func isMarked(date time.Time, marked []time.Time) bool {
	for _, m := range marked {
		if m.Equal(date) {
			return true
		}
	}
	return false
}
