// Package operations keeps the user's event list in sync with a storage
// backend and reports the outcome of every change through a notify.Sink.
package operations

import (
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/notify"
	"github.com/cyp0633/libcalrepeat/recurrence"
	"github.com/cyp0633/libcalrepeat/storage"
)

// User-facing messages.
const (
	MsgLoaded             = "Events loaded!"
	MsgLoadFailed         = "Failed to load events"
	MsgAdded              = "Event added."
	MsgUpdated            = "Event updated."
	MsgSaveFailed         = "Failed to save event"
	MsgDeleted            = "Event deleted."
	MsgDeleteFailed       = "Failed to delete event"
	MsgSeriesSaved        = "Created %d repeating events."
	MsgSeriesSaveFailed   = "Failed to save repeating events"
	MsgSeriesDeleted      = "Deleted %d repeating events."
	MsgSeriesDeleteFailed = "Failed to delete repeating events"
)

// Expander turns a template into event instances.
type Expander interface {
	Expand(tmpl event.EventForm, repeatID string) []event.EventForm
}

type expandFunc func(event.EventForm, string) []event.EventForm

func (f expandFunc) Expand(tmpl event.EventForm, repeatID string) []event.EventForm {
	return f(tmpl, repeatID)
}

// Operations owns the in-memory event list. Every write goes through one
// mutex, so at most one gateway write is in flight and writes reach the
// gateway in call order. After a successful write the list is replaced with
// a fresh ListEvents result.
type Operations struct {
	gateway  storage.Storage
	sink     notify.Sink
	expander Expander
	logger   *slog.Logger
	onSave   func()
	newID    func() string
	limits   event.Limits

	writeMu sync.Mutex

	mu      sync.RWMutex
	editing bool
	events  []event.Event
}

// Option configures Operations.
type Option func(*Operations)

// WithEditing makes SaveEvent update the existing event instead of creating one.
func WithEditing(editing bool) Option {
	return func(o *Operations) {
		o.editing = editing
	}
}

// WithOnSave registers a callback run after every successful save.
func WithOnSave(fn func()) Option {
	return func(o *Operations) {
		o.onSave = fn
	}
}

// WithExpander replaces the package-level recurrence.Expand, for example with
// a caching *recurrence.Engine.
func WithExpander(e Expander) Option {
	return func(o *Operations) {
		if e != nil {
			o.expander = e
		}
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Operations) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIDGenerator sets how series ids are generated when none is given.
func WithIDGenerator(fn func() string) Option {
	return func(o *Operations) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithLimits sets the bounds events are validated against before saving.
func WithLimits(limits event.Limits) Option {
	return func(o *Operations) {
		o.limits = limits
	}
}

// New creates Operations on top of gateway, reporting to sink.
func New(gateway storage.Storage, sink notify.Sink, opts ...Option) *Operations {
	if sink == nil {
		sink = notify.Discard
	}
	o := &Operations{
		gateway:  gateway,
		sink:     sink,
		expander: expandFunc(recurrence.Expand),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		onSave:   func() {},
		newID:    newSeriesID,
		events:   []event.Event{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetEditing switches SaveEvent between update and create.
func (o *Operations) SetEditing(editing bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.editing = editing
}

func (o *Operations) isEditing() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.editing
}

// Events returns a copy of the current event list.
func (o *Operations) Events() []event.Event {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.events)
}

func (o *Operations) replaceEvents(events []event.Event) {
	if events == nil {
		events = []event.Event{}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = events
}

// GenerateRepeatEvents expands tmpl without persisting anything.
func (o *Operations) GenerateRepeatEvents(tmpl event.EventForm, repeatID string) []event.EventForm {
	return o.expander.Expand(tmpl, repeatID)
}
