package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleUpdate(t *testing.T) {
	existing := storage.NewMockEvent("event-1", "Dentist", "2025-03-04")

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*storage.MockStorage)
		expectedStatus int
		expectedTitle  string
	}{
		{
			name: "update existing event",
			id:   "event-1",
			body: strings.Replace(validBody, "Dentist", "Dentist (moved)", 1),
			setupMock: func(m *storage.MockStorage) {
				m.On("UpdateEvent", mock.Anything, "event-1", mock.MatchedBy(func(f *event.EventForm) bool {
					return f.Title == "Dentist (moved)"
				})).Return(&event.Event{ID: "event-1", EventForm: event.EventForm{Title: "Dentist (moved)"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedTitle:  "Dentist (moved)",
		},
		{
			name: "body carrying an id is accepted",
			id:   "event-1",
			body: `{"id":"ignored",` + strings.TrimPrefix(validBody, "{"),
			setupMock: func(m *storage.MockStorage) {
				m.On("UpdateEvent", mock.Anything, "event-1", mock.Anything).Return(&existing, nil)
			},
			expectedStatus: http.StatusOK,
			expectedTitle:  "Dentist",
		},
		{
			name: "missing event",
			id:   "nope",
			body: validBody,
			setupMock: func(m *storage.MockStorage) {
				m.On("UpdateEvent", mock.Anything, "nope", mock.Anything).Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid body never reaches storage",
			id:             "event-1",
			body:           `{"title":"x"}`,
			setupMock:      func(m *storage.MockStorage) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStorage := new(storage.MockStorage)
			tt.setupMock(mockStorage)
			s := newTestServer(t, mockStorage)

			rec := do(s, http.MethodPut, PathEvents+"/"+tt.id, tt.body)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedTitle != "" {
				var got event.Event
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, tt.expectedTitle, got.Title)
			}
			mockStorage.AssertExpectations(t)
		})
	}
}
