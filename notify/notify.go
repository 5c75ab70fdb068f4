// Package notify delivers user-facing status messages.
package notify

import (
	"log/slog"
	"slices"
	"sync"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Sink receives notifications. Notify must not block for long and never
// reports failure to the caller.
type Sink interface {
	Notify(message string, level Level)
}

// Func adapts a function to a Sink.
type Func func(message string, level Level)

func (f Func) Notify(message string, level Level) { f(message, level) }

// Discard drops every notification.
var Discard Sink = Func(func(string, Level) {})

// LogSink writes notifications to a logger, errors at error level.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Notify(message string, level Level) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if level == LevelError {
		logger.Error(message, "severity", level)
		return
	}
	logger.Info(message, "severity", level)
}

// Notification is one recorded message.
type Notification struct {
	Message string
	Level   Level
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(message string, level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message, Level: level})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Multi fans a notification out to every sink in order.
type Multi []Sink

func (m Multi) Notify(message string, level Level) {
	for _, s := range m {
		if s != nil {
			s.Notify(message, level)
		}
	}
}
