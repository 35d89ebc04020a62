package picker

import (
	"fmt"
	"time"

	"calpicker/internal/dateutil"
	"calpicker/internal/model"
)

// Event is a state transition dispatched to the root picker.
type Event interface {
	// userEvent reports whether the host is notified after the transition.
	userEvent() bool
}

// DayTapped is raised by a tap on a tappable day cell.
type DayTapped struct {
	Day int
}

// MonthChanged is raised by the header controls. YearDelta is non-zero only
// on December/January wraparound, so year and month always land together.
type MonthChanged struct {
	Month     int
	YearDelta int
}

// SelectedDateSet replaces the whole selection with a host supplied date.
type SelectedDateSet struct {
	Date time.Time
}

func (DayTapped) userEvent() bool { return true }
func (MonthChanged) userEvent() bool { return true }
func (SelectedDateSet) userEvent() bool { return false }

func (e DayTapped) String() string { return fmt.Sprintf("day_tapped(%d)", e.Day) }
func (e MonthChanged) String() string {
	return fmt.Sprintf("month_changed(%d,%+d)", e.Month, e.YearDelta)
}
func (e SelectedDateSet) String() string {
	return "selected_date_set(" + e.Date.Format(time.DateOnly) + ")"
}

// State is the root picker's authoritative selection. Day/Month/Year are
// kept apart and Date is rebuilt from them after every mutation, so Date is
// always a valid calendar date while the fields may not be (day 31 shown in
// February).
type State struct {
	model.CalendarDate
	Date     time.Time
	Location *time.Location
}

// NewState splits t into a State.
func NewState(t time.Time) State {
	return State{
		CalendarDate: model.FromTime(t),
		Date:         t,
		Location:     t.Location(),
	}
}

// Displayed returns the month/year the grid shows.
func (s State) Displayed() model.DisplayedMonth {
	return model.DisplayedMonth{Year: s.Year, Month: s.Month}
}

// Reduce applies ev to s and returns the new state.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case DayTapped:
		s.Day = e.Day
	case MonthChanged:
		s.Year += e.YearDelta
		s.Month = e.Month
	case SelectedDateSet:
		return NewState(e.Date)
	default:
		return s
	}
	s.Date = dateutil.Compose(s.Year, s.Month, s.Day, s.Location)
	return s
}
