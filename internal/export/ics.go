package export

import (
	"fmt"
	"io"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/emersion/go-ical"
)

// PropSeriesID carries the series id of a generated instance.
const PropSeriesID = "X-CALREPEAT-SERIES"

// Calendar builds a VCALENDAR holding one VEVENT per event.
func (x Exporter) Calendar(events []event.Event) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	stamp := x.now()
	for i := range events {
		vevent, err := x.vevent(&events[i])
		if err != nil {
			return nil, err
		}
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		cal.Children = append(cal.Children, vevent.Component)
	}
	return cal, nil
}

func (x Exporter) vevent(ev *event.Event) (*ical.Event, error) {
	start, end, err := x.span(ev)
	if err != nil {
		return nil, err
	}

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, ev.ID)
	vevent.Props.SetText(ical.PropSummary, ev.Title)
	vevent.Props.SetDateTime(ical.PropDateTimeStart, start)
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, end)
	if ev.Description != "" {
		vevent.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		vevent.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.Category != "" {
		vevent.Props.SetText(ical.PropCategories, ev.Category)
	}
	if id, ok := ev.SeriesID(); ok {
		prop := ical.NewProp(PropSeriesID)
		prop.Value = id
		vevent.Props.Set(prop)
	}

	if ev.NotificationTime > 0 {
		alarm := ical.NewComponent(ical.CompAlarm)
		alarm.Props.SetText(ical.PropAction, "DISPLAY")
		alarm.Props.SetText(ical.PropDescription, ev.Title)
		trigger := ical.NewProp(ical.PropTrigger)
		trigger.Value = fmt.Sprintf("-PT%dM", ev.NotificationTime)
		alarm.Props.Set(trigger)
		vevent.Children = append(vevent.Children, alarm)
	}
	return vevent, nil
}

// WriteICS encodes events as an iCalendar stream.
func (x Exporter) WriteICS(w io.Writer, events []event.Event) error {
	cal, err := x.Calendar(events)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
