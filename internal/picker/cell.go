package picker

import "time"

// CellState is the visual state of one grid slot.
type CellState int

const (
	// Placeholder pads the first and last week of the month.
	Placeholder CellState = iota
	// Selected wins over Disabled even when the day is out of range.
	Selected
	Disabled
	Normal
)

func (s CellState) String() string {
	switch s {
	case Placeholder:
		return "placeholder"
	case Selected:
		return "selected"
	case Disabled:
		return "disabled"
	case Normal:
		return "normal"
	default:
		return "unknown"
	}
}

// DayCell describes one slot of the 6x7 grid. Day is 1-based; zero means the
// slot is a placeholder.
type DayCell struct {
	Day      int       `json:"day,omitempty"`
	Date     time.Time `json:"date,omitzero"`
	Selected bool      `json:"selected"`
	Marked   bool      `json:"marked"`
	Enabled  bool      `json:"enabled"`
}

// IsPlaceholder reports whether the cell has no day number.
func (c DayCell) IsPlaceholder() bool {
	return c.Day == 0
}

// State resolves the three mutually exclusive day states plus placeholders.
func (c DayCell) State() CellState {
	switch {
	case c.IsPlaceholder():
		return Placeholder
	case c.Selected:
		return Selected
	case !c.Enabled:
		return Disabled
	default:
		return Normal
	}
}

// Tappable reports whether a tap on this cell reaches the day-change
// callback. Disabled and placeholder cells have no tap handler.
func (c DayCell) Tappable() bool {
	s := c.State()
	return s == Selected || s == Normal
}
