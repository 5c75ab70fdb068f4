package recurrence

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func template(date string, kind event.RepeatType, interval int, end string) event.EventForm {
	f := event.EventForm{
		Title:            "Team sync",
		Date:             event.MustParseDate(date),
		StartTime:        "10:00",
		EndTime:          "11:00",
		Description:      "weekly numbers",
		Location:         "Room 4",
		Category:         "work",
		NotificationTime: 10,
		Repeat:           event.RepeatInfo{Type: kind, Interval: interval},
	}
	if end != "" {
		f.Repeat.EndDate = mo.Some(event.MustParseDate(end))
	}
	return f
}

func dates(instances []event.EventForm) []string {
	out := make([]string, len(instances))
	for i, inst := range instances {
		out[i] = inst.Date.String()
	}
	return out
}

func TestExpandSingle(t *testing.T) {
	tests := []struct {
		name string
		tmpl event.EventForm
	}{
		{name: "none with end date", tmpl: template("2025-07-15", event.RepeatNone, 1, "2025-08-01")},
		{name: "daily without end date", tmpl: template("2025-07-15", event.RepeatDaily, 1, "")},
		{name: "monthly without end date", tmpl: template("2025-01-31", event.RepeatMonthly, 1, "")},
		{name: "unknown kind", tmpl: template("2025-07-15", "hourly", 1, "2025-08-01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := tt.tmpl
			tmpl.Repeat.ID = mo.Some("stale")

			got := Expand(tmpl, "series-1")
			require.Len(t, got, 1)
			assert.Equal(t, tt.tmpl.Date, got[0].Date)
			assert.True(t, got[0].Repeat.ID.IsAbsent())
			assert.False(t, got[0].Repeat.SkipInvalidDates)
			assert.Equal(t, tt.tmpl.Title, got[0].Title)
		})
	}
}

func TestExpandDecodedBlankEndDate(t *testing.T) {
	for _, end := range []string{`""`, `null`} {
		body := `{"title":"Gym","date":"2025-07-15","startTime":"07:00","endTime":"08:00",` +
			`"repeat":{"type":"daily","interval":1,"endDate":` + end + `}}`
		var tmpl event.EventForm
		require.NoError(t, json.Unmarshal([]byte(body), &tmpl), end)

		got := Expand(tmpl, "series-1")
		require.Len(t, got, 1, end)
		assert.Equal(t, "2025-07-15", got[0].Date.String())
		assert.True(t, got[0].Repeat.ID.IsAbsent())
	}
}

func TestExpandCadences(t *testing.T) {
	tests := []struct {
		name string
		tmpl event.EventForm
		want []string
	}{
		{
			name: "daily",
			tmpl: template("2025-07-15", event.RepeatDaily, 1, "2025-07-17"),
			want: []string{"2025-07-15", "2025-07-16", "2025-07-17"},
		},
		{
			name: "daily every third day across a month",
			tmpl: template("2025-01-28", event.RepeatDaily, 3, "2025-02-06"),
			want: []string{"2025-01-28", "2025-01-31", "2025-02-03", "2025-02-06"},
		},
		{
			name: "weekly",
			tmpl: template("2025-10-01", event.RepeatWeekly, 1, "2025-10-15"),
			want: []string{"2025-10-01", "2025-10-08", "2025-10-15"},
		},
		{
			name: "biweekly end between occurrences",
			tmpl: template("2025-10-01", event.RepeatWeekly, 2, "2025-10-28"),
			want: []string{"2025-10-01", "2025-10-15"},
		},
		{
			name: "monthly on the 31st",
			tmpl: template("2025-10-31", event.RepeatMonthly, 1, "2026-01-31"),
			want: []string{"2025-10-31", "2025-12-31", "2026-01-31"},
		},
		{
			name: "monthly on the 30th through february",
			tmpl: template("2024-01-30", event.RepeatMonthly, 1, "2024-04-30"),
			want: []string{"2024-01-30", "2024-03-30", "2024-04-30"},
		},
		{
			name: "monthly on the 29th in a leap year",
			tmpl: template("2024-01-29", event.RepeatMonthly, 1, "2024-03-29"),
			want: []string{"2024-01-29", "2024-02-29", "2024-03-29"},
		},
		{
			name: "every other month across a year boundary",
			tmpl: template("2025-11-15", event.RepeatMonthly, 2, "2026-05-15"),
			want: []string{"2025-11-15", "2026-01-15", "2026-03-15", "2026-05-15"},
		},
		{
			name: "quarterly on the 31st",
			tmpl: template("2025-01-31", event.RepeatMonthly, 3, "2025-12-31"),
			want: []string{"2025-01-31", "2025-07-31", "2025-10-31"},
		},
		{
			name: "yearly on leap day",
			tmpl: template("2024-02-29", event.RepeatYearly, 1, "2027-12-31"),
			want: []string{"2024-02-29"},
		},
		{
			name: "yearly on leap day until the next leap year",
			tmpl: template("2024-02-29", event.RepeatYearly, 1, "2032-03-01"),
			want: []string{"2024-02-29", "2028-02-29", "2032-02-29"},
		},
		{
			name: "yearly every two years",
			tmpl: template("2020-06-01", event.RepeatYearly, 2, "2025-06-01"),
			want: []string{"2020-06-01", "2022-06-01", "2024-06-01"},
		},
		{
			name: "end equals base",
			tmpl: template("2025-03-10", event.RepeatDaily, 1, "2025-03-10"),
			want: []string{"2025-03-10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.tmpl, "series-1")
			assert.Equal(t, tt.want, dates(got))

			for _, inst := range got {
				id, ok := inst.Repeat.ID.Get()
				assert.True(t, ok)
				assert.Equal(t, "series-1", id)
				assert.True(t, inst.Repeat.SkipInvalidDates)
				assert.True(t, IsValidDate(inst.Date.Year, inst.Date.Month, inst.Date.Day))

				// Descriptive fields are copied unchanged.
				assert.Equal(t, tt.tmpl.Title, inst.Title)
				assert.Equal(t, tt.tmpl.StartTime, inst.StartTime)
				assert.Equal(t, tt.tmpl.EndTime, inst.EndTime)
				assert.Equal(t, tt.tmpl.Description, inst.Description)
				assert.Equal(t, tt.tmpl.Location, inst.Location)
				assert.Equal(t, tt.tmpl.Category, inst.Category)
				assert.Equal(t, tt.tmpl.NotificationTime, inst.NotificationTime)
				assert.Equal(t, tt.tmpl.Repeat.Type, inst.Repeat.Type)
				assert.Equal(t, tt.tmpl.Repeat.EndDate, inst.Repeat.EndDate)
			}
		})
	}
}

func TestExpandNeverRollsOver(t *testing.T) {
	got := dates(Expand(template("2025-01-31", event.RepeatMonthly, 1, "2025-12-31"), "s"))
	assert.Equal(t, []string{
		"2025-01-31", "2025-03-31", "2025-05-31", "2025-07-31",
		"2025-08-31", "2025-10-31", "2025-12-31",
	}, got)
	assert.NotContains(t, got, "2025-03-03")
	assert.NotContains(t, got, "2025-12-01")
}

func TestExpandStrictlyIncreasing(t *testing.T) {
	for _, kind := range []event.RepeatType{event.RepeatDaily, event.RepeatWeekly, event.RepeatMonthly, event.RepeatYearly} {
		got := Expand(template("2024-01-31", kind, 1, "2040-12-31"), "s")
		require.NotEmpty(t, got, kind)
		assert.Equal(t, "2024-01-31", got[0].Date.String(), kind)
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i-1].Date.Before(got[i].Date), "%s: %s !< %s", kind, got[i-1].Date, got[i].Date)
		}
	}
}

func TestExpandHugeInterval(t *testing.T) {
	tests := []struct {
		name     string
		kind     event.RepeatType
		interval int
	}{
		{name: "monthly", kind: event.RepeatMonthly, interval: math.MaxInt},
		{name: "yearly", kind: event.RepeatYearly, interval: math.MaxInt},
		{name: "daily", kind: event.RepeatDaily, interval: math.MaxInt / 2},
		{name: "daily max", kind: event.RepeatDaily, interval: math.MaxInt},
		{name: "weekly", kind: event.RepeatWeekly, interval: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(template("2025-01-31", tt.kind, tt.interval, "2025-12-31"), "s")
			require.Equal(t, []string{"2025-01-31"}, dates(got))
			for i := 1; i < len(got); i++ {
				assert.True(t, got[i-1].Date.Before(got[i].Date))
			}
		})
	}

	// Large but reachable steps still land on the right dates.
	got := Expand(template("2025-01-31", event.RepeatMonthly, 11, "2026-12-31"), "s")
	assert.Equal(t, []string{"2025-01-31", "2025-12-31"}, dates(got))
}

func TestExpandCap(t *testing.T) {
	got := Expand(template("2025-01-01", event.RepeatDaily, 1, "2030-12-31"), "s")
	require.Len(t, got, MaxOccurrences)
	assert.Equal(t, "2025-01-01", got[0].Date.String())
	assert.Equal(t, "2025-12-31", got[len(got)-1].Date.String())

	// Skipped dates do not count towards the cap.
	monthly := Expand(template("2000-01-31", event.RepeatMonthly, 1, "2099-12-31"), "s")
	require.Len(t, monthly, MaxOccurrences)
	for _, inst := range monthly {
		assert.Equal(t, 31, inst.Date.Day)
	}
}

func TestExpandEndBeforeBase(t *testing.T) {
	got := Expand(template("2025-05-10", event.RepeatDaily, 1, "2025-05-01"), "s")
	assert.Empty(t, got)
}

func TestExpandNonPositiveInterval(t *testing.T) {
	got := Expand(template("2025-05-10", event.RepeatDaily, 0, "2025-05-12"), "s")
	assert.Equal(t, []string{"2025-05-10", "2025-05-11", "2025-05-12"}, dates(got))
}

func TestExpandIdempotent(t *testing.T) {
	tmpl := template("2025-10-31", event.RepeatMonthly, 1, "2027-01-31")
	first := Expand(tmpl, "s")
	second := Expand(tmpl, "s")
	assert.Equal(t, first, second)

	// The template itself is left untouched.
	assert.True(t, tmpl.Repeat.ID.IsAbsent())
	assert.False(t, tmpl.Repeat.SkipInvalidDates)
}
