package recurrence

import (
	"time"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/samber/mo"
)

// MaxOccurrences is the most instances a single expansion emits.
const MaxOccurrences = 365

const secondsPerDay = 24 * 60 * 60

// Expand produces the concrete instances described by tmpl.
//
// A template whose repeat type is none, or that has no end date, yields a
// single copy of itself with no series id. Otherwise every occurrence from
// the base date through the end date (inclusive) that exists on the calendar
// is emitted, tagged with repeatID and SkipInvalidDates. Monthly and yearly
// occurrences keep the template's day (and month) fixed: a date missing from
// the calendar is skipped, never rolled into the following month. At most
// MaxOccurrences instances are returned.
func Expand(tmpl event.EventForm, repeatID string) []event.EventForm {
	out, _ := expand(tmpl, repeatID, MaxOccurrences)
	return out
}

// expand reports whether the result was cut short by limit.
func expand(tmpl event.EventForm, repeatID string, limit int) ([]event.EventForm, bool) {
	end, hasEnd := tmpl.Repeat.EndDate.Get()
	if !tmpl.Repeat.Type.IsRepeating() || !hasEnd {
		single := tmpl
		single.Repeat.ID = mo.None[string]()
		return []event.EventForm{single}, false
	}

	interval := max(tmpl.Repeat.Interval, 1)
	out := make([]event.EventForm, 0, min(limit, 64))
	cursor := tmpl.Date
	for !cursor.After(end) {
		if len(out) == limit {
			return out, true
		}
		if IsValidDate(cursor.Year, cursor.Month, cursor.Day) {
			inst := tmpl
			inst.Date = cursor
			inst.Repeat.ID = mo.Some(repeatID)
			inst.Repeat.SkipInvalidDates = true
			out = append(out, inst)
		}

		var ok bool
		if cursor, ok = next(cursor, end, tmpl.Repeat.Type, interval); !ok {
			break
		}
	}
	return out, false
}

// next returns the intended date interval cadence units after prev. It
// reports false when that date lies past end, so the step never has to be
// computed when it could overflow. Monthly and yearly results keep prev's
// day and are not normalised; they may not exist on the calendar.
func next(prev, end event.Date, kind event.RepeatType, interval int) (event.Date, bool) {
	switch kind {
	case event.RepeatDaily, event.RepeatWeekly:
		unit := 1
		if kind == event.RepeatWeekly {
			unit = 7
		}
		if interval > (dayNumber(end)-dayNumber(prev))/unit {
			return event.Date{}, false
		}
		return prev.AddDays(interval * unit), true
	case event.RepeatMonthly:
		from := monthNumber(prev)
		if interval > monthNumber(end)-from {
			return event.Date{}, false
		}
		m := from + interval
		return event.NewDate(m/12, m%12+1, prev.Day), true
	case event.RepeatYearly:
		if interval > end.Year-prev.Year {
			return event.Date{}, false
		}
		return event.NewDate(prev.Year+interval, prev.Month, prev.Day), true
	default:
		return event.Date{}, false
	}
}

// dayNumber counts days since the Unix epoch. d must be a valid date.
func dayNumber(d event.Date) int {
	return int(d.In(time.UTC).Unix() / secondsPerDay)
}

func monthNumber(d event.Date) int {
	return d.Year*12 + d.Month - 1
}
