package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/internal/export"
	"github.com/cyp0633/libcalrepeat/server/auth"
	"github.com/cyp0633/libcalrepeat/storage"
)

const (
	// HTTP headers
	headerContentType = "Content-Type"
	headerLocation    = "Location"

	// MIME types
	mimeTypeJSON     = "application/json"
	mimeTypeCalendar = "text/calendar; charset=utf-8"
	mimeTypeXCal     = "application/calendar+xml; charset=utf-8"
	mimeTypeAtom     = "application/atom+xml; charset=utf-8"

	// Paths
	PathEvents = "/api/events"
	PathHealth = "/health"

	maxBodySize = 1 << 20
)

// ErrNoStorage is returned by New when no storage backend is given.
var ErrNoStorage = errors.New("storage is required")

// Server exposes a storage.Storage as a JSON REST API.
type Server struct {
	storage  storage.Storage
	exporter export.Exporter
	feed     export.FeedOptions
	logger   *slog.Logger
	handler  http.Handler

	authenticator auth.Authenticator
	realm         string
	limiter       *RateLimiter
	limits        event.Limits
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuthenticator requires basic auth on everything except the health check.
func WithAuthenticator(a auth.Authenticator, realm string) Option {
	return func(s *Server) {
		s.authenticator = a
		s.realm = realm
	}
}

// WithRateLimit limits each client address to rps requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = NewRateLimiter(rps, burst)
		}
	}
}

// WithLocation sets the time zone event times are exported in.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		s.exporter.Location = loc
	}
}

// WithFeed sets the title and public link of the Atom feed.
func WithFeed(opts export.FeedOptions) Option {
	return func(s *Server) {
		s.feed = opts
	}
}

// WithLimits sets the bounds submitted events are validated against.
func WithLimits(limits event.Limits) Option {
	return func(s *Server) {
		s.limits = limits
	}
}

// New creates a new events server
func New(store storage.Storage, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, ErrNoStorage
	}

	s := &Server{
		storage: store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathHealth, s.handleHealth)
	mux.HandleFunc("GET "+PathEvents, s.handleList)
	mux.HandleFunc("POST "+PathEvents, s.handleCreate)
	mux.HandleFunc("GET "+PathEvents+"/{id}", s.handleGet)
	mux.HandleFunc("PUT "+PathEvents+"/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE "+PathEvents+"/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/export/events.ics", s.handleExportICS)
	mux.HandleFunc("GET /api/export/events.xml", s.handleExportXCal)
	mux.HandleFunc("GET /api/export/feed.atom", s.handleExportAtom)

	var h http.Handler = mux
	if s.authenticator != nil {
		h = auth.Middleware(s.authenticator, s.realm, PathHealth)(h)
	}
	if s.limiter != nil {
		h = s.limiter.Middleware(h)
	}
	s.handler = logRequests(s.logger, h)

	return s, nil
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(headerContentType, mimeTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps storage and validation errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidInput), errors.Is(err, event.ErrInvalidEvent):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}

	attrs := []any{"method", r.Method, "path", r.URL.Path, "status", status, "error", err}
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		attrs = append(attrs, "user", p.ID)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
	} else {
		s.logger.Debug("request rejected", attrs...)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeForm reads and validates an event form from the request body.
func (s *Server) decodeForm(r *http.Request) (*event.EventForm, error) {
	var form event.EventForm
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&form); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}
	if err := form.ValidateWith(s.limits); err != nil {
		return nil, err
	}
	return &form, nil
}
