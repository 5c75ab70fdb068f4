package storage

import (
	"context"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/stretchr/testify/mock"
)

// MockStorage implements the Storage interface for testing
type MockStorage struct {
	mock.Mock
}

// ListEvents implements the Storage interface
func (m *MockStorage) ListEvents(ctx context.Context) ([]event.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Event), args.Error(1)
}

// GetEvent implements the Storage interface
func (m *MockStorage) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

// CreateEvent implements the Storage interface
func (m *MockStorage) CreateEvent(ctx context.Context, form *event.EventForm) (*event.Event, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

// UpdateEvent implements the Storage interface
func (m *MockStorage) UpdateEvent(ctx context.Context, id string, form *event.EventForm) (*event.Event, error) {
	args := m.Called(ctx, id, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

// DeleteEvent implements the Storage interface
func (m *MockStorage) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// NewMockEvent creates a test Event with basic properties
func NewMockEvent(id, title, date string) event.Event {
	return event.Event{
		ID: id,
		EventForm: event.EventForm{
			Title:     title,
			Date:      event.MustParseDate(date),
			StartTime: "09:00",
			EndTime:   "10:00",
			Repeat:    event.RepeatInfo{Type: event.RepeatNone, Interval: 1},
		},
	}
}
