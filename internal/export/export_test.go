package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/storage"
	"github.com/emersion/go-ical"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func testEvents() []event.Event {
	a := storage.NewMockEvent("ev-1", "Standup", "2025-07-15")
	a.Location = "Room 4"
	a.Category = "work"
	a.NotificationTime = 10
	a.Repeat.ID = mo.Some("series-1")

	b := storage.NewMockEvent("ev-2", "Dinner", "2025-07-16")
	b.StartTime = "19:00"
	b.EndTime = "21:30"
	b.Description = "Bring wine"
	return []event.Event{a, b}
}

func newExporter() Exporter {
	return Exporter{
		Location: time.FixedZone("KST", 9*60*60),
		Now:      func() time.Time { return fixedNow },
	}
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter().WriteICS(&buf, testEvents()))

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	prodID, err := cal.Props.Text(ical.PropProductID)
	require.NoError(t, err)
	assert.Equal(t, ProductID, prodID)

	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	uid, _ := first.Props.Text(ical.PropUID)
	assert.Equal(t, "ev-1", uid)
	summary, _ := first.Props.Text(ical.PropSummary)
	assert.Equal(t, "Standup", summary)

	start, err := first.DateTimeStart(time.UTC)
	require.NoError(t, err)
	// 09:00 KST is midnight UTC.
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), start.UTC())

	assert.Equal(t, "series-1", first.Props.Get(PropSeriesID).Value)
	require.Len(t, first.Children, 1)
	assert.Equal(t, ical.CompAlarm, first.Children[0].Name)
	assert.Equal(t, "-PT10M", first.Children[0].Props.Get(ical.PropTrigger).Value)

	second := events[1]
	assert.Nil(t, second.Props.Get(PropSeriesID))
	assert.Empty(t, second.Children)
	desc, _ := second.Props.Text(ical.PropDescription)
	assert.Equal(t, "Bring wine", desc)
}

func TestWriteXCal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter().WriteXCal(&buf, testEvents()))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	root := doc.SelectElement("icalendar")
	require.NotNil(t, root)
	assert.Equal(t, NamespaceXCal, root.SelectAttrValue("xmlns", ""))

	vevents := doc.FindElements("//vevent")
	require.Len(t, vevents, 2)

	assert.Equal(t, "ev-1", vevents[0].FindElement("properties/uid/text").Text())
	assert.Equal(t, "2025-07-15T00:00:00Z", vevents[0].FindElement("properties/dtstart/date-time").Text())
	assert.Equal(t, "2025-01-02T03:04:05Z", vevents[0].FindElement("properties/dtstamp/date-time").Text())
	assert.Equal(t, "series-1", vevents[0].FindElement("properties/x-calrepeat-series/unknown").Text())
	assert.Equal(t, "-PT10M", vevents[0].FindElement("components/valarm/properties/trigger/duration").Text())

	assert.Equal(t, "2025-07-16T12:30:00Z", vevents[1].FindElement("properties/dtend/date-time").Text())
	assert.Nil(t, vevents[1].FindElement("components"))
}

func TestWriteAtom(t *testing.T) {
	var buf bytes.Buffer
	err := newExporter().WriteAtom(&buf, testEvents(), FeedOptions{Link: "https://cal.example.com/api/events/"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<feed")
	assert.Equal(t, 2, strings.Count(out, "<entry>"))
	assert.Contains(t, out, "<title>Standup</title>")
	assert.Contains(t, out, "https://cal.example.com/api/events/ev-2")
	assert.Contains(t, out, "Room 4")
}

func TestExportRejectsBadTimes(t *testing.T) {
	events := testEvents()
	events[1].StartTime = "later"

	assert.Error(t, newExporter().WriteICS(&bytes.Buffer{}, events))
	assert.Error(t, newExporter().WriteXCal(&bytes.Buffer{}, events))
	assert.Error(t, newExporter().WriteAtom(&bytes.Buffer{}, events, FeedOptions{}))
}
