package server

import (
	"net/http"
)

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	form, err := s.decodeForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	updated, err := s.storage.UpdateEvent(r.Context(), id, form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Debug("updated event", "id", id)
	writeJSON(w, http.StatusOK, updated)
}
