package notify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderAndMulti(t *testing.T) {
	var a, b Recorder
	var calls int
	sink := Multi{&a, nil, &b, Func(func(string, Level) { calls++ })}

	sink.Notify("Event added.", LevelSuccess)
	sink.Notify("Failed to load events", LevelError)

	assert.Equal(t, a.All(), b.All())
	assert.Equal(t, []Notification{
		{Message: "Event added.", Level: LevelSuccess},
		{Message: "Failed to load events", Level: LevelError},
	}, a.All())
	assert.Equal(t, 2, calls)

	last, ok := a.Last()
	assert.True(t, ok)
	assert.Equal(t, LevelError, last.Level)

	var empty Recorder
	_, ok = empty.Last()
	assert.False(t, ok)
	Discard.Notify("ignored", LevelInfo)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	sink.Notify("Event deleted.", LevelInfo)
	sink.Notify("Failed to delete event", LevelError)

	out := buf.String()
	assert.Contains(t, out, `level=INFO msg="Event deleted."`)
	assert.Contains(t, out, `level=ERROR msg="Failed to delete event"`)
}
