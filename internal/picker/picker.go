// Package picker implements a month-grid date picker as a pure state
// machine. Hosts feed it taps and navigation, read back a View to render, and
// receive the composite selected date through Options.OnDateChange.
//
// A Picker is owned by a single goroutine.
package picker

import (
	"time"

	"calpicker/internal/model"
)

// Picker is the root widget. It owns the selected date and the marked-day
// set and derives everything else on demand.
type Picker struct {
	opts  Options
	state State
}

// View is a render snapshot.
type View struct {
	Header      Header     `json:"header"`
	Labels      []string   `json:"labels"`
	LabelsFirst bool       `json:"labels_first"`
	Grid        Grid       `json:"grid"`
	Selected    time.Time  `json:"selected"`
	Appearance  Appearance `json:"-"`
}

// New validates opts and builds a picker showing opts.SelectedDate.
func New(opts Options) (*Picker, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.OnDateChange == nil {
		opts.OnDateChange = func(time.Time) {}
	}
	return &Picker{
		opts:  opts,
		state: NewState(opts.SelectedDate),
	}, nil
}

// State returns the current selection state.
func (p *Picker) State() State {
	return p.state
}

// Date returns the composite selected date.
func (p *Picker) Date() time.Time {
	return p.state.Date
}

// Displayed returns the month/year shown in the grid.
func (p *Picker) Displayed() model.DisplayedMonth {
	return p.state.Displayed()
}

// Dispatch reduces ev into the state. For user events the host callback
// fires once, after the whole transition has been applied. It reports
// whether the host was notified.
func (p *Picker) Dispatch(ev Event) bool {
	p.state = Reduce(p.state, ev)
	if !ev.userEvent() {
		return false
	}
	p.opts.OnDateChange(p.state.Date)
	return true
}

// SetSelectedDate replaces the selection with a host supplied date. The host
// is not notified.
func (p *Picker) SetSelectedDate(t time.Time) {
	p.Dispatch(SelectedDateSet{Date: t})
}

// SetMarkedDays replaces the marked-day set.
func (p *Picker) SetMarkedDays(days []time.Time) {
	p.opts.MarkedDays = append([]time.Time(nil), days...)
}

// MarkedDays returns the current marked-day set.
func (p *Picker) MarkedDays() []time.Time {
	return p.opts.MarkedDays
}

// TapDay handles a tap on the cell for day. It reports whether the tap was
// accepted; placeholder and disabled cells ignore taps.
func (p *Picker) TapDay(day int) bool {
	cell, ok := p.Grid().Find(day)
	if !ok || !cell.Tappable() {
		return false
	}
	p.Dispatch(DayTapped{Day: day})
	return true
}

// Next shows the following month unless the control is disabled.
func (p *Picker) Next() bool {
	if NextDisabled(p.Displayed(), p.opts.MaxDate) {
		return false
	}
	p.Dispatch(NextMonth(p.state.Month))
	return true
}

// Previous shows the preceding month unless the control is disabled.
func (p *Picker) Previous() bool {
	if PreviousDisabled(p.Displayed(), p.opts.MinDate) {
		return false
	}
	p.Dispatch(PreviousMonth(p.state.Month))
	return true
}

// Grid builds the day grid for the displayed month. The selected day is the
// day-of-month of the composite date, which after an overflow (Jan 31 moved
// to February) is the rolled-over day.
func (p *Picker) Grid() Grid {
	return BuildGrid(GridInput{
		Month:           p.state.Month,
		Year:            p.state.Year,
		SelectedDay:     p.state.Date.Day(),
		MinDate:         p.opts.MinDate,
		MaxDate:         p.opts.MaxDate,
		MarkedDays:      p.opts.MarkedDays,
		StartFromMonday: p.opts.StartFromMonday,
		Location:        p.state.Location,
	})
}

// Header builds the header controls for the displayed month.
func (p *Picker) Header() Header {
	return buildHeader(p.Displayed(), p.opts)
}

// View assembles everything a renderer needs.
func (p *Picker) View() View {
	return View{
		Header:      p.Header(),
		Labels:      WeekdayLabels(p.opts.Weekdays),
		LabelsFirst: p.opts.WeekdayLabelsFirst,
		Grid:        p.Grid(),
		Selected:    p.state.Date,
		Appearance:  p.opts.Appearance,
	}
}
