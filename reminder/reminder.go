// Package reminder sends a notification shortly before an event starts,
// using each event's notificationTime as the lead time in minutes.
package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/notify"
	"github.com/robfig/cron/v3"
)

// DefaultSpec checks for due reminders once a minute.
const DefaultSpec = "* * * * *"

// MsgReminder is the text sent for a due event: title, then start time.
const MsgReminder = "Reminder: %s starts at %s"

// Lister is the part of storage.Storage the scheduler reads from.
type Lister interface {
	ListEvents(ctx context.Context) ([]event.Event, error)
}

// Scheduler polls a Lister on a cron schedule and notifies each due event
// once per occurrence.
type Scheduler struct {
	source Lister
	sink   notify.Sink
	spec   string
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger

	mu   sync.Mutex
	sent map[string]time.Time // id@start -> start
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation sets the time zone event dates and times are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithSpec replaces the cron spec used by Start.
func WithSpec(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.spec = spec
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a scheduler reading events from source and reporting to sink.
func New(source Lister, sink notify.Sink, opts ...Option) *Scheduler {
	if sink == nil {
		sink = notify.Discard
	}
	s := &Scheduler{
		source: source,
		sink:   sink,
		spec:   DefaultSpec,
		loc:    time.Local,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sent:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the schedule until ctx is done, then waits for a running check
// to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, func() { s.Run(ctx) }); err != nil {
		return fmt.Errorf("add reminder check %q: %w", s.spec, err)
	}

	c.Start()
	s.logger.Info("reminder scheduler started", "spec", s.spec, "tz", s.loc.String())

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
	return nil
}

// Run lists the events and notifies the ones that are due. A listing
// failure is logged and the check skipped.
func (s *Scheduler) Run(ctx context.Context) int {
	events, err := s.source.ListEvents(ctx)
	if err != nil {
		s.logger.Warn("failed to list events for reminders", "error", err)
		return 0
	}
	return len(s.Check(events, s.now()))
}

// Check notifies every event in events whose reminder window contains now
// and that has not been reminded before. It returns the notified events.
func (s *Scheduler) Check(events []event.Event, now time.Time) []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, start := range s.sent {
		if start.Before(now) {
			delete(s.sent, key)
		}
	}

	var due []event.Event
	for _, ev := range events {
		if ev.NotificationTime <= 0 {
			continue
		}
		start, err := ev.StartsAt(s.loc)
		if err != nil {
			s.logger.Debug("skipping event with bad start time", "id", ev.ID, "error", err)
			continue
		}
		remindAt := start.Add(-time.Duration(ev.NotificationTime) * time.Minute)
		if now.Before(remindAt) || !now.Before(start) {
			continue
		}

		key := ev.ID + "@" + start.Format(time.RFC3339)
		if _, ok := s.sent[key]; ok {
			continue
		}
		s.sent[key] = start

		s.sink.Notify(fmt.Sprintf(MsgReminder, ev.Title, start.Format("2006-01-02 15:04")), notify.LevelInfo)
		s.logger.Debug("sent reminder", "id", ev.ID, "start", start)
		due = append(due, ev)
	}
	return due
}
