package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "calpicker/internal/log"
	"calpicker/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// ExpandConfig bounds recurrence expansion.
type ExpandConfig struct {
	// DisplayLocation receives every occurrence. Nil means time.Local.
	DisplayLocation *time.Location

	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps a single series. Zero means 5000.
	MaxOccurrencesPerEvent int
}

// ExpandResult lists occurrences and the UIDs that hit the cap.
type ExpandResult struct {
	Occurrences     []model.Occurrence
	TruncatedEvents []string
}

// ExpandOccurrences turns parsed events into concrete occurrences inside
// the range, applying RRULE, EXDATE and RECURRENCE-ID overrides.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	bases := make(map[string][]ParsedEvent)
	overrides := make(map[string][]ParsedEvent)
	var order []string
	for _, ev := range events {
		if ev.IsOverride() {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
			continue
		}
		if _, seen := bases[ev.UID]; !seen {
			order = append(order, ev.UID)
		}
		bases[ev.UID] = append(bases[ev.UID], ev)
	}

	for _, uid := range order {
		truncated := false
		for _, ev := range bases[uid] {
			occ, hitCap := expandEvent(ev, overrides[uid], cfg)
			truncated = truncated || hitCap
			result.Occurrences = append(result.Occurrences, occ...)
		}
		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, uid)
			appLog.Warn("expand: occurrences truncated", "uid", uid, "cap", cfg.MaxOccurrencesPerEvent)
		}
	}
	return result, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool) {
	if ev.RawRRule == "" {
		if !overlaps(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
			return nil, false
		}
		return []model.Occurrence{occurrenceFor(ev, ev.Start, ev.End, overrides, cfg.DisplayLocation)}, false
	}

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	loc := ev.Start.Location()
	duration := ev.End.Sub(ev.Start)
	// Widen the window by one duration so multi-day instances starting
	// before the range still count.
	lo, hi := cfg.RangeStart.In(loc).Add(-duration), cfg.RangeEnd.In(loc)
	starts := set.Between(lo, hi, true)

	hitCap := false
	if len(starts) > cfg.MaxOccurrencesPerEvent {
		starts = starts[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	out := make([]model.Occurrence, 0, len(starts))
	for _, s := range starts {
		out = append(out, occurrenceFor(ev, s, s.Add(duration), overrides, cfg.DisplayLocation))
	}

	// Overrides of instances outside the window never matched a start above
	// but can still be moved into the range.
	for _, ov := range overrides {
		rid := ov.Recurrence.In(loc)
		if !rid.Before(lo) && !rid.After(hi) {
			continue
		}
		if !overlaps(ov.Start, ov.End, cfg.RangeStart, cfg.RangeEnd) || !isInstance(&set, rid) {
			continue
		}
		out = append(out, occurrenceFor(ov, ov.Start, ov.End, nil, cfg.DisplayLocation))
	}
	return out, hitCap
}

// isInstance reports whether t is a start of the recurrence set.
func isInstance(set *rrule.Set, t time.Time) bool {
	for _, s := range set.Between(t, t, true) {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

// occurrenceFor applies a matching override, if any, and converts to loc.
// All-day occurrences keep their calendar date instead of their instant.
func occurrenceFor(ev ParsedEvent, start, end time.Time, overrides []ParsedEvent, loc *time.Location) model.Occurrence {
	for _, ov := range overrides {
		if ov.Recurrence.In(start.Location()).Equal(start) {
			ev, start, end = ov, ov.Start, ov.End
			break
		}
	}

	if ev.AllDay {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	} else {
		start = start.In(loc)
		end = end.In(loc)
	}

	return model.Occurrence{
		SourceID:    ev.Source.ID,
		UID:         ev.UID,
		InstanceKey: start.Format(time.RFC3339Nano),
		Summary:     ev.Summary,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		Start:       start,
		End:         end,
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
