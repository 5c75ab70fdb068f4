package server

import (
	"net/http"
)

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.storage.DeleteEvent(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Debug("deleted event", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
