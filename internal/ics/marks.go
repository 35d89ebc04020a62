package ics

import (
	"context"
	"sort"
	"time"

	cerrors "cloudeng.io/errors"

	"calpicker/internal/config"
	"calpicker/internal/dateutil"
	appLog "calpicker/internal/log"
	"calpicker/internal/model"
)

// MarkedDays returns every date touched by an occurrence, as midnight in
// loc, sorted and de-duplicated. End is exclusive, so an event ending at
// midnight does not mark the following day; zero-length events mark their
// start date.
func MarkedDays(occs []model.Occurrence, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[time.Time]struct{})
	for _, o := range occs {
		d := dateutil.NormalizeToDate(o.Start.In(loc))
		last := dateutil.NormalizeToDate(o.End.In(loc))
		if o.End.After(o.Start) && last.Equal(o.End.In(loc)) {
			last = last.AddDate(0, 0, -1)
		}
		if last.Before(d) {
			last = d
		}
		for ; !d.After(last); d = d.AddDate(0, 0, 1) {
			seen[d] = struct{}{}
		}
	}

	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// SourcesFromConfig builds sources from config, skipping entries without a
// URL and deriving a missing ID from the name or URL.
func SourcesFromConfig(cfgs []config.ICSConfig) []Source {
	out := make([]Source, 0, len(cfgs))
	for _, c := range cfgs {
		if c.URL == "" {
			continue
		}
		id := c.ID
		if id == "" {
			id = c.Name
		}
		if id == "" {
			id = c.URL
		}
		out = append(out, Source{ID: id, URL: c.URL})
	}
	return out
}

// Loader runs fetch, parse, expand and marking for a set of sources.
type Loader struct {
	Fetcher       *Fetcher
	Sources       []Source
	Location      *time.Location
	HorizonMonths int
}

// Load returns the marked days within HorizonMonths of now. Partial
// failures still return the days from the sources that worked, together
// with the aggregated error.
func (l *Loader) Load(ctx context.Context, now time.Time) ([]time.Time, error) {
	if len(l.Sources) == 0 {
		return nil, nil
	}
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}
	horizon := l.HorizonMonths
	if horizon <= 0 {
		horizon = 12
	}

	errs := &cerrors.M{}
	results, err := l.Fetcher.FetchAll(ctx, l.Sources)
	errs.Append(err)

	var events []ParsedEvent
	for _, res := range results {
		parsed, err := ParseICS(res.Source, res.Body)
		if err != nil {
			errs.Append(err)
			continue
		}
		events = append(events, parsed...)
	}

	today := dateutil.NormalizeToDate(now.In(loc))
	expanded, err := ExpandOccurrences(events, ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      today.AddDate(0, -horizon, 0),
		RangeEnd:        today.AddDate(0, horizon, 0),
	})
	if err != nil {
		errs.Append(err)
		return nil, errs.Err()
	}

	days := MarkedDays(expanded.Occurrences, loc)
	appLog.Info("marked days loaded",
		"sources", len(l.Sources),
		"events", len(events),
		"occurrences", len(expanded.Occurrences),
		"days", len(days),
	)
	return days, errs.Err()
}
