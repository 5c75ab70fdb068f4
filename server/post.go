package server

import (
	"net/http"
	"net/url"
)

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	form, err := s.decodeForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.storage.CreateEvent(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Debug("created event", "id", created.ID, "title", created.Title, "date", created.Date)
	w.Header().Set(headerLocation, PathEvents+"/"+url.PathEscape(created.ID))
	writeJSON(w, http.StatusCreated, created)
}
