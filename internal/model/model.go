package model

import (
	"fmt"
	"time"
)

// CalendarDate is the selected date kept as three separate fields. Month is
// 0-indexed. The fields are not normalized on their own; the composite date
// built from them is.
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// FromTime splits t into a CalendarDate.
func FromTime(t time.Time) CalendarDate {
	return CalendarDate{
		Year:  t.Year(),
		Month: int(t.Month()) - 1,
		Day:   t.Day(),
	}
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month+1, d.Day)
}

// DisplayedMonth is the month/year currently rendered in the grid.
type DisplayedMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Before reports whether m is strictly earlier than o.
func (m DisplayedMonth) Before(o DisplayedMonth) bool {
	return m.Year < o.Year || (m.Year == o.Year && m.Month < o.Month)
}

// MonthOf returns the displayed month containing t.
func MonthOf(t time.Time) DisplayedMonth {
	return DisplayedMonth{Year: t.Year(), Month: int(t.Month()) - 1}
}

// Occurrence is a single concrete instance of a calendar event after
// recurrence expansion. Only its dates matter to the picker, which marks every
// day an occurrence touches.
type Occurrence struct {
	SourceID string
	UID      string

	// InstanceKey uniquely identifies one occurrence of a recurring event.
	InstanceKey string

	Summary  string
	Location string

	AllDay bool

	// Start / End are in the display timezone. End is exclusive.
	Start time.Time
	End   time.Time
}
