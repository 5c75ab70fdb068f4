// Package storage defines the persistence gateway for events.
package storage

import (
	"context"
	"errors"

	"github.com/cyp0633/libcalrepeat/event"
)

// Storage connects the event operations with a backend (database, REST API,
// memory). Please use the error types provided.
type Storage interface {
	// ListEvents returns every stored event in creation order.
	ListEvents(ctx context.Context) ([]event.Event, error)
	// GetEvent finds an event by id.
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	// CreateEvent stores form as a new event and returns it with its assigned id.
	CreateEvent(ctx context.Context, form *event.EventForm) (*event.Event, error)
	// UpdateEvent replaces the event with the given id.
	UpdateEvent(ctx context.Context, id string, form *event.EventForm) (*event.Event, error)
	// DeleteEvent removes an event.
	DeleteEvent(ctx context.Context, id string) error
}

var (
	// ErrNotFound is returned when a requested event doesn't exist
	ErrNotFound = errors.New("event not found")
	// ErrInvalidInput is returned when the input parameters are invalid
	ErrInvalidInput = errors.New("invalid input parameters")
	// ErrConflict is returned when there's a conflict with an existing event
	ErrConflict = errors.New("event conflict")
	// ErrStorageUnavailable is returned when the storage backend is unavailable
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// EventsInSeries filters events down to those carrying the given series id,
// preserving order.
func EventsInSeries(events []event.Event, repeatID string) []event.Event {
	var out []event.Event
	for _, ev := range events {
		if id, ok := ev.SeriesID(); ok && id == repeatID {
			out = append(out, ev)
		}
	}
	return out
}
