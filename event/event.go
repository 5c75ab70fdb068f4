// Package event defines calendar events, their repeat rules and input validation.
package event

import (
	"encoding/json"

	"github.com/samber/mo"
)

// RepeatType is the recurrence kind of an event.
type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// IsRepeating reports whether t produces more than one occurrence.
func (t RepeatType) IsRepeating() bool {
	switch t {
	case RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	default:
		return false
	}
}

// RepeatInfo describes how an event repeats.
type RepeatInfo struct {
	// ID correlates every instance produced by one expansion.
	ID       mo.Option[string] `json:"id,omitzero"`
	Type     RepeatType        `json:"type"`
	Interval int               `json:"interval"`

	// EndDate is inclusive.
	EndDate mo.Option[Date] `json:"endDate,omitzero"`

	// SkipInvalidDates is set on generated instances: dates missing from the
	// calendar were skipped rather than rolled over.
	SkipInvalidDates bool `json:"skipInvalidDates,omitempty"`
}

// UnmarshalJSON decodes r, treating an empty or null endDate as absent.
func (r *RepeatInfo) UnmarshalJSON(b []byte) error {
	type plain RepeatInfo
	var raw struct {
		plain
		EndDate *string `json:"endDate"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*r = RepeatInfo(raw.plain)
	r.EndDate = mo.None[Date]()
	if raw.EndDate != nil && *raw.EndDate != "" {
		end, err := ParseDate(*raw.EndDate)
		if err != nil {
			return err
		}
		r.EndDate = mo.Some(end)
	}
	return nil
}

// EventForm is the user-editable part of an event. It doubles as the
// template handed to the recurrence expander and as the body of a create or
// update request.
type EventForm struct {
	Title       string     `json:"title"`
	Date        Date       `json:"date"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Category    string     `json:"category"`
	Repeat      RepeatInfo `json:"repeat"`

	// NotificationTime is the number of minutes before start to remind.
	NotificationTime int `json:"notificationTime"`
}

// Event is a stored event.
type Event struct {
	ID string `json:"id"`
	EventForm
}

// SeriesID returns the correlation id of the series e belongs to, if any.
func (f EventForm) SeriesID() (string, bool) {
	return f.Repeat.ID.Get()
}
