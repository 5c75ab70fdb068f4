package operations

import (
	"context"
	"fmt"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/notify"
	"github.com/cyp0633/libcalrepeat/storage"
	"github.com/google/uuid"
)

func newSeriesID() string {
	return uuid.NewString()
}

// SaveSeries expands tmpl and creates every instance one after another, in
// expansion order. The first failed create stops the batch; instances
// already stored stay stored. An empty repeatID gets a generated one.
// It returns the number of instances stored.
func (o *Operations) SaveSeries(ctx context.Context, tmpl event.EventForm, repeatID string) (int, error) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	if err := tmpl.ValidateWith(o.limits); err != nil {
		o.logger.Error("rejected repeating event", "title", tmpl.Title, "error", err)
		o.sink.Notify(MsgSeriesSaveFailed, notify.LevelError)
		return 0, err
	}
	if repeatID == "" {
		repeatID = o.newID()
	}

	instances := o.expander.Expand(tmpl, repeatID)
	o.logger.Debug("saving repeating events", "repeat_id", repeatID, "count", len(instances))

	for i := range instances {
		if _, err := o.gateway.CreateEvent(ctx, &instances[i]); err != nil {
			o.logger.Error("failed to save repeating event",
				"repeat_id", repeatID,
				"date", instances[i].Date,
				"saved", i,
				"total", len(instances),
				"error", err)
			o.sink.Notify(MsgSeriesSaveFailed, notify.LevelError)
			return i, fmt.Errorf("save repeating event %d of %d (%s): %w", i+1, len(instances), instances[i].Date, err)
		}
	}

	o.Fetch(ctx)
	o.onSave()
	o.sink.Notify(fmt.Sprintf(MsgSeriesSaved, len(instances)), notify.LevelSuccess)
	return len(instances), nil
}

// DeleteSeries deletes every event in the current list that belongs to the
// series repeatID, one at a time, stopping at the first failure. The list is
// refreshed first so ids are current. It returns the number deleted.
func (o *Operations) DeleteSeries(ctx context.Context, repeatID string) (int, error) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	if err := o.Fetch(ctx); err != nil {
		o.sink.Notify(MsgSeriesDeleteFailed, notify.LevelError)
		return 0, err
	}

	members := storage.EventsInSeries(o.Events(), repeatID)
	for i, ev := range members {
		if err := o.gateway.DeleteEvent(ctx, ev.ID); err != nil {
			o.logger.Error("failed to delete repeating event",
				"repeat_id", repeatID,
				"id", ev.ID,
				"deleted", i,
				"error", err)
			o.sink.Notify(MsgSeriesDeleteFailed, notify.LevelError)
			o.Fetch(ctx)
			return i, fmt.Errorf("delete repeating event %s: %w", ev.ID, err)
		}
	}

	o.Fetch(ctx)
	o.sink.Notify(fmt.Sprintf(MsgSeriesDeleted, len(members)), notify.LevelInfo)
	return len(members), nil
}
