package operations

import (
	"context"
	"fmt"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/notify"
)

// Init loads the event list and announces it.
func (o *Operations) Init(ctx context.Context) error {
	err := o.Fetch(ctx)
	o.sink.Notify(MsgLoaded, notify.LevelInfo)
	return err
}

// Fetch replaces the event list with the gateway's. On failure the previous
// list is kept and an error notification is sent.
func (o *Operations) Fetch(ctx context.Context) error {
	events, err := o.gateway.ListEvents(ctx)
	if err != nil {
		o.logger.Error("failed to fetch events", "error", err)
		o.sink.Notify(MsgLoadFailed, notify.LevelError)
		return fmt.Errorf("fetch events: %w", err)
	}

	o.replaceEvents(events)
	o.logger.Debug("fetched events", "count", len(events))
	return nil
}

// SaveEvent creates ev, or updates the event with ev.ID when editing.
func (o *Operations) SaveEvent(ctx context.Context, ev event.Event) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	editing := o.isEditing()
	if err := o.saveEvent(ctx, ev, editing); err != nil {
		o.logger.Error("failed to save event", "id", ev.ID, "editing", editing, "error", err)
		o.sink.Notify(MsgSaveFailed, notify.LevelError)
		return err
	}

	o.Fetch(ctx)
	o.onSave()
	if editing {
		o.sink.Notify(MsgUpdated, notify.LevelSuccess)
	} else {
		o.sink.Notify(MsgAdded, notify.LevelSuccess)
	}
	return nil
}

func (o *Operations) saveEvent(ctx context.Context, ev event.Event, editing bool) error {
	if err := ev.ValidateWith(o.limits); err != nil {
		return err
	}

	if editing {
		if ev.ID == "" {
			return fmt.Errorf("%w: editing requires an event id", event.ErrInvalidEvent)
		}
		if _, err := o.gateway.UpdateEvent(ctx, ev.ID, &ev.EventForm); err != nil {
			return fmt.Errorf("update event %s: %w", ev.ID, err)
		}
		return nil
	}

	created, err := o.gateway.CreateEvent(ctx, &ev.EventForm)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	o.logger.Debug("created event", "id", created.ID, "title", created.Title)
	return nil
}

// DeleteEvent removes the event with the given id.
func (o *Operations) DeleteEvent(ctx context.Context, id string) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	if err := o.gateway.DeleteEvent(ctx, id); err != nil {
		o.logger.Error("failed to delete event", "id", id, "error", err)
		o.sink.Notify(MsgDeleteFailed, notify.LevelError)
		return fmt.Errorf("delete event %s: %w", id, err)
	}

	o.Fetch(ctx)
	o.sink.Notify(MsgDeleted, notify.LevelInfo)
	return nil
}
