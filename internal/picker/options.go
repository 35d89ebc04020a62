package picker

import (
	"errors"
	"fmt"
	"time"

	cerrors "cloudeng.io/errors"

	"calpicker/internal/dateutil"
)

// ErrInvalidOptions is returned by New when the picker cannot be rendered
// with the given configuration.
var ErrInvalidOptions = errors.New("picker: invalid options")

// Options configures a Picker. Only SelectedDate is required.
type Options struct {
	// SelectedDate is the initially selected date. Its location is used for
	// every date the picker builds.
	SelectedDate time.Time

	// MinDate / MaxDate bound the enabled days and the month navigation.
	// Zero values mean unbounded.
	MinDate time.Time
	MaxDate time.Time

	// StartFromMonday shifts the grid offset by one day. Weekday labels are
	// not rotated; pass dateutil.WeekdaysFromMonday as Weekdays for that.
	StartFromMonday bool

	Weekdays []string
	Months   []string

	PreviousTitle string
	NextTitle     string

	// MarkedDays are matched against each day's midnight by exact instant.
	MarkedDays []time.Time

	// WeekdayLabelsFirst renders the label row above the header controls.
	WeekdayLabelsFirst bool

	// Appearance is passed through to renderers untouched.
	Appearance Appearance

	// OnDateChange is called with the composite date after every user
	// interaction that changes the day, month or year.
	OnDateChange func(time.Time)
}

// Appearance holds cosmetic pass-through options.
type Appearance struct {
	ScaleFactor          float64
	SelectedDayColor     string
	SelectedDayTextColor string
	TextColor            string
	MarkedDayColor       string
}

func (o Options) validate() error {
	errs := &cerrors.M{}
	if o.SelectedDate.IsZero() {
		errs.Append(errors.New("selected date is required"))
	}
	if o.Weekdays != nil && len(o.Weekdays) != dateutil.MaxColumns {
		errs.Append(fmt.Errorf("weekdays: want %d labels, got %d", dateutil.MaxColumns, len(o.Weekdays)))
	}
	if o.Months != nil && len(o.Months) != 12 {
		errs.Append(fmt.Errorf("months: want 12 labels, got %d", len(o.Months)))
	}
	if !o.MinDate.IsZero() && !o.MaxDate.IsZero() && o.MinDate.After(o.MaxDate) {
		errs.Append(fmt.Errorf("min date %s is after max date %s",
			o.MinDate.Format(time.DateOnly), o.MaxDate.Format(time.DateOnly)))
	}
	if o.Appearance.ScaleFactor < 0 {
		errs.Append(fmt.Errorf("scale factor must not be negative, got %v", o.Appearance.ScaleFactor))
	}
	if err := errs.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

func (o Options) monthLabels() []string {
	if o.Months != nil {
		return o.Months
	}
	return dateutil.Months
}

func (o Options) previousTitle() string {
	if o.PreviousTitle != "" {
		return o.PreviousTitle
	}
	return "Previous"
}

func (o Options) nextTitle() string {
	if o.NextTitle != "" {
		return o.NextTitle
	}
	return "Next"
}
