package server

import (
	"net/http"

	"github.com/cyp0633/libcalrepeat/event"
)

// ListResponse is the body returned by GET /api/events.
type ListResponse struct {
	Events []event.Event `json:"events"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := s.storage.ListEvents(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Events: events})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ev, err := s.storage.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
