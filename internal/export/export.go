// Package export renders stored events as iCalendar, xCal and Atom documents.
package export

import (
	"fmt"
	"time"

	"github.com/cyp0633/libcalrepeat/event"
)

// ProductID identifies generated calendars.
const ProductID = "-//github.com/cyp0633/libcalrepeat//NONSGML v1.0//EN"

// Exporter holds the settings shared by every format.
type Exporter struct {
	// Location interprets event dates and times. Defaults to UTC.
	Location *time.Location
	// Now stamps generated documents. Defaults to time.Now.
	Now func() time.Time
}

func (x Exporter) location() *time.Location {
	if x.Location == nil {
		return time.UTC
	}
	return x.Location
}

func (x Exporter) now() time.Time {
	if x.Now == nil {
		return time.Now().UTC()
	}
	return x.Now().UTC()
}

// span returns the UTC start and end of ev.
func (x Exporter) span(ev *event.Event) (time.Time, time.Time, error) {
	start, err := ev.StartsAt(x.location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	end, err := ev.EndsAt(x.location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	return start.UTC(), end.UTC(), nil
}
