package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/cyp0633/libcalrepeat/event"
)

// serveExport renders every stored event with write and sends it as mime.
// The document is buffered so a rendering error still yields a clean 500.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, mime string, write func(io.Writer, []event.Event) error) {
	events, err := s.storage.ListEvents(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, events); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(headerContentType, mime)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, mimeTypeCalendar, s.exporter.WriteICS)
}

func (s *Server) handleExportXCal(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, mimeTypeXCal, s.exporter.WriteXCal)
}

func (s *Server) handleExportAtom(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, mimeTypeAtom, func(w io.Writer, events []event.Event) error {
		return s.exporter.WriteAtom(w, events, s.feed)
	})
}
