package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

// ErrInvalidEvent is returned when an event form fails validation.
var ErrInvalidEvent = errors.New("invalid event")

const clockLayout = "15:04"

// Limits are deployment bounds checked on top of the calendar rules.
type Limits struct {
	// MaxEndDate, if set, is the latest repeat end date accepted.
	MaxEndDate mo.Option[Date]
}

// Validate checks the form the way the event editor does before saving.
func (f *EventForm) Validate() error {
	return f.ValidateWith(Limits{})
}

// ValidateWith is Validate with the given limits applied.
func (f *EventForm) ValidateWith(limits Limits) error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if f.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEvent)
	}
	if _, err := time.Parse(DateLayout, f.Date.String()); err != nil {
		return fmt.Errorf("%w: date %s does not exist", ErrInvalidEvent, f.Date)
	}

	start, err := time.Parse(clockLayout, f.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start time %q must be HH:MM", ErrInvalidEvent, f.StartTime)
	}
	end, err := time.Parse(clockLayout, f.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end time %q must be HH:MM", ErrInvalidEvent, f.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidEvent)
	}

	if f.NotificationTime < 0 {
		return fmt.Errorf("%w: notification time cannot be negative", ErrInvalidEvent)
	}

	return f.Repeat.validate(f.Date, limits)
}

func (r RepeatInfo) validate(base Date, limits Limits) error {
	switch r.Type {
	case "", RepeatNone:
		return nil
	case RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
	default:
		return fmt.Errorf("%w: unknown repeat type %q", ErrInvalidEvent, r.Type)
	}

	if r.Interval < 1 {
		return fmt.Errorf("%w: repeat interval must be at least 1", ErrInvalidEvent)
	}
	end, ok := r.EndDate.Get()
	if !ok {
		return nil
	}
	if end.Before(base) {
		return fmt.Errorf("%w: repeat end date %s is before %s", ErrInvalidEvent, end, base)
	}
	if limit, ok := limits.MaxEndDate.Get(); ok && end.After(limit) {
		return fmt.Errorf("%w: repeat end date %s is after %s", ErrInvalidEvent, end, limit)
	}
	return nil
}

// StartsAt returns the start of the event in loc.
func (f *EventForm) StartsAt(loc *time.Location) (time.Time, error) {
	return f.at(f.StartTime, loc)
}

// EndsAt returns the end of the event in loc.
func (f *EventForm) EndsAt(loc *time.Location) (time.Time, error) {
	return f.at(f.EndTime, loc)
}

func (f *EventForm) at(clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidEvent, clock)
	}
	return time.Date(f.Date.Year, time.Month(f.Date.Month), f.Date.Day, t.Hour(), t.Minute(), 0, 0, loc), nil
}
