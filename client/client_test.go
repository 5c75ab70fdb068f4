package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/internal/httpclient"
	"github.com/cyp0633/libcalrepeat/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents(t *testing.T) {
	mockClient := newMockHTTPClient()
	a := storage.NewMockEvent("1", "A", "2025-01-01")
	b := storage.NewMockEvent("2", "B", "2025-01-02")
	mockClient.on("GET", "/api/events", ListResponse{Events: []event.Event{a, b}}, nil)

	c := New(mockClient, "/api/events/")
	events, err := c.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []event.Event{a, b}, events)
}

func TestListEventsEmpty(t *testing.T) {
	mockClient := newMockHTTPClient()
	mockClient.on("GET", "/api/events", map[string]any{}, nil)

	events, err := New(mockClient, "/api/events").ListEvents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestCreateAndUpdateEvent(t *testing.T) {
	mockClient := newMockHTTPClient()
	form := storage.NewMockEvent("", "Lunch", "2025-05-05").EventForm
	created := event.Event{ID: "new", EventForm: form}
	mockClient.on("POST", "/api/events", created, nil)
	mockClient.on("PUT", "/api/events/new", nil, nil)

	c := New(mockClient, "/api/events")
	got, err := c.CreateEvent(context.Background(), &form)
	require.NoError(t, err)
	assert.Equal(t, &created, got)

	form.Title = "Late lunch"
	updated, err := c.UpdateEvent(context.Background(), "new", &form)
	require.NoError(t, err)
	assert.Equal(t, "new", updated.ID)
	assert.Equal(t, "Late lunch", updated.Title)

	require.Len(t, mockClient.calls, 2)
	assert.Contains(t, string(mockClient.calls[1].body), `"title":"Late lunch"`)

	_, err = c.CreateEvent(context.Background(), nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestDeleteEventEscapesID(t *testing.T) {
	mockClient := newMockHTTPClient()
	mockClient.on("DELETE", "/api/events/a%2Fb", nil, nil)

	require.NoError(t, New(mockClient, "/api/events").DeleteEvent(context.Background(), "a/b"))
}

func TestErrorTranslation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "not found", err: &httpclient.StatusError{Code: http.StatusNotFound}, want: storage.ErrNotFound},
		{name: "bad request", err: &httpclient.StatusError{Code: http.StatusBadRequest}, want: storage.ErrInvalidInput},
		{name: "conflict", err: &httpclient.StatusError{Code: http.StatusConflict}, want: storage.ErrConflict},
		{name: "server error", err: &httpclient.StatusError{Code: http.StatusInternalServerError}, want: storage.ErrStorageUnavailable},
		{name: "network", err: errors.New("connection refused"), want: storage.ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := newMockHTTPClient()
			mockClient.on("GET", "/api/events/x", nil, tt.err)

			_, err := New(mockClient, "/api/events").GetEvent(context.Background(), "x")
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
