package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/teambition/rrule-go"
)

// ErrNotRepeating is returned when an RRULE is requested for a form that
// describes a single event.
var ErrNotRepeating = errors.New("event does not repeat")

var frequencies = map[event.RepeatType]rrule.Frequency{
	event.RepeatDaily:   rrule.DAILY,
	event.RepeatWeekly:  rrule.WEEKLY,
	event.RepeatMonthly: rrule.MONTHLY,
	event.RepeatYearly:  rrule.YEARLY,
}

// RRule builds the RFC 5545 rule equivalent to f's repeat settings, anchored
// at f's start time in loc. RFC 5545 also drops dates missing from the
// calendar, so the rule yields the same dates as Expand (without the cap).
func RRule(f event.EventForm, loc *time.Location) (*rrule.RRule, error) {
	freq, ok := frequencies[f.Repeat.Type]
	if !ok {
		return nil, ErrNotRepeating
	}
	end, ok := f.Repeat.EndDate.Get()
	if !ok {
		return nil, ErrNotRepeating
	}

	start, err := f.StartsAt(loc)
	if err != nil {
		return nil, err
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     freq,
		Interval: max(f.Repeat.Interval, 1),
		Dtstart:  start,
		Until:    time.Date(end.Year, time.Month(end.Month), end.Day, 23, 59, 59, 0, loc),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build rule for %q: %w", f.Title, err)
	}
	return r, nil
}

// RuleString renders f's repeat settings as an RRULE value
// (e.g. "FREQ=MONTHLY;INTERVAL=1;UNTIL=20241231T235959Z").
func RuleString(f event.EventForm, loc *time.Location) (string, error) {
	r, err := RRule(f, loc)
	if err != nil {
		return "", err
	}
	return r.OrigOptions.RRuleString(), nil
}
