package picker

import (
	"strconv"
	"time"

	"calpicker/internal/model"
)

// Header is the month/year label with previous/next controls.
type Header struct {
	Month            int    `json:"month"`
	Year             int    `json:"year"`
	Title            string `json:"title"`
	PreviousTitle    string `json:"previous_title"`
	NextTitle        string `json:"next_title"`
	PreviousDisabled bool   `json:"previous_disabled"`
	NextDisabled     bool   `json:"next_disabled"`
}

// NextMonth advances the displayed month, wrapping December into January of
// the following year.
func NextMonth(month int) MonthChanged {
	next := month + 1
	if next > 11 {
		return MonthChanged{Month: 0, YearDelta: 1}
	}
	return MonthChanged{Month: next}
}

// PreviousMonth is the mirror of NextMonth.
func PreviousMonth(month int) MonthChanged {
	prev := month - 1
	if prev < 0 {
		return MonthChanged{Month: 11, YearDelta: -1}
	}
	return MonthChanged{Month: prev}
}

// NextDisabled reports whether the displayed month is at or past maxDate's
// month. A zero maxDate never disables.
func NextDisabled(shown model.DisplayedMonth, maxDate time.Time) bool {
	if maxDate.IsZero() {
		return false
	}
	return !shown.Before(model.MonthOf(maxDate))
}

// PreviousDisabled reports whether the displayed month is at or before
// minDate's month. A zero minDate never disables.
func PreviousDisabled(shown model.DisplayedMonth, minDate time.Time) bool {
	if minDate.IsZero() {
		return false
	}
	return !model.MonthOf(minDate).Before(shown)
}

func buildHeader(shown model.DisplayedMonth, opts Options) Header {
	months := opts.monthLabels()
	return Header{
		Month:            shown.Month,
		Year:             shown.Year,
		Title:            months[shown.Month] + " " + strconv.Itoa(shown.Year),
		PreviousTitle:    opts.previousTitle(),
		NextTitle:        opts.nextTitle(),
		PreviousDisabled: PreviousDisabled(shown, opts.MinDate),
		NextDisabled:     NextDisabled(shown, opts.MaxDate),
	}
}
