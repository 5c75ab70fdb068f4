package export

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/cyp0633/libcalrepeat/event"
)

// NamespaceXCal is the xCal (RFC 6321) namespace.
const NamespaceXCal = "urn:ietf:params:xml:ns:icalendar-2.0"

const xcalDateTime = "2006-01-02T15:04:05Z"

// addProp appends <name><valueType>value</valueType></name> to props.
func addProp(props *etree.Element, name, valueType, value string) {
	props.CreateElement(name).CreateElement(valueType).SetText(value)
}

// XCal builds the xCal document for events.
func (x Exporter) XCal(events []event.Event) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("icalendar")
	root.CreateAttr("xmlns", NamespaceXCal)

	vcalendar := root.CreateElement("vcalendar")
	calProps := vcalendar.CreateElement("properties")
	addProp(calProps, "prodid", "text", ProductID)
	addProp(calProps, "version", "text", "2.0")

	components := vcalendar.CreateElement("components")
	stamp := x.now().Format(xcalDateTime)
	for i := range events {
		ev := &events[i]
		start, end, err := x.span(ev)
		if err != nil {
			return nil, err
		}

		vevent := components.CreateElement("vevent")
		props := vevent.CreateElement("properties")
		addProp(props, "uid", "text", ev.ID)
		addProp(props, "dtstamp", "date-time", stamp)
		addProp(props, "dtstart", "date-time", start.Format(xcalDateTime))
		addProp(props, "dtend", "date-time", end.Format(xcalDateTime))
		addProp(props, "summary", "text", ev.Title)
		if ev.Description != "" {
			addProp(props, "description", "text", ev.Description)
		}
		if ev.Location != "" {
			addProp(props, "location", "text", ev.Location)
		}
		if ev.Category != "" {
			addProp(props, "categories", "text", ev.Category)
		}
		if id, ok := ev.SeriesID(); ok {
			addProp(props, "x-calrepeat-series", "unknown", id)
		}

		if ev.NotificationTime > 0 {
			valarm := vevent.CreateElement("components").CreateElement("valarm")
			alarmProps := valarm.CreateElement("properties")
			addProp(alarmProps, "action", "text", "DISPLAY")
			addProp(alarmProps, "description", "text", ev.Title)
			addProp(alarmProps, "trigger", "duration", fmt.Sprintf("-PT%dM", ev.NotificationTime))
		}
	}

	doc.Indent(2)
	return doc, nil
}

// WriteXCal writes events as an xCal document.
func (x Exporter) WriteXCal(w io.Writer, events []event.Event) error {
	doc, err := x.XCal(events)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xCal: %w", err)
	}
	return nil
}
