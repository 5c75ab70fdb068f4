package client

import (
	"context"
	"fmt"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/storage"
)

// ListResponse is the body of GET /api/events.
type ListResponse struct {
	Events []event.Event `json:"events"`
}

func (c *EventsClient) ListEvents(ctx context.Context) ([]event.Event, error) {
	var resp ListResponse
	if err := c.httpClient.DoGET(ctx, c.eventsURL, &resp); err != nil {
		return nil, translateError("failed to list events", err)
	}
	if resp.Events == nil {
		resp.Events = []event.Event{}
	}
	return resp.Events, nil
}

func (c *EventsClient) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	var ev event.Event
	if err := c.httpClient.DoGET(ctx, c.eventURL(id), &ev); err != nil {
		return nil, translateError("failed to get event", err)
	}
	return &ev, nil
}

func (c *EventsClient) CreateEvent(ctx context.Context, form *event.EventForm) (*event.Event, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: missing event", storage.ErrInvalidInput)
	}

	var created event.Event
	if err := c.httpClient.DoPOST(ctx, c.eventsURL, form, &created); err != nil {
		return nil, translateError("failed to create event", err)
	}
	return &created, nil
}

func (c *EventsClient) UpdateEvent(ctx context.Context, id string, form *event.EventForm) (*event.Event, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: missing event", storage.ErrInvalidInput)
	}

	var updated event.Event
	if err := c.httpClient.DoPUT(ctx, c.eventURL(id), form, &updated); err != nil {
		return nil, translateError("failed to update event", err)
	}
	if updated.ID == "" {
		updated = event.Event{ID: id, EventForm: *form}
	}
	return &updated, nil
}

func (c *EventsClient) DeleteEvent(ctx context.Context, id string) error {
	if err := c.httpClient.DoDELETE(ctx, c.eventURL(id)); err != nil {
		return translateError("failed to delete event", err)
	}
	return nil
}
