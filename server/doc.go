/*
Package server exposes a storage.Storage as a JSON REST API.

# Basic Usage

The simplest way to use this package is with the in-memory storage:

	store := memory.New()
	srv, err := server.New(store)
	if err != nil {
		log.Fatal(err)
	}
	http.ListenAndServe(":8080", srv)

# Routes

	GET    /health                  liveness, never authenticated
	GET    /api/events              {"events": [...]}
	POST   /api/events              create, 201 with Location
	GET    /api/events/{id}         one event
	PUT    /api/events/{id}         replace
	DELETE /api/events/{id}         204
	GET    /api/export/events.ics   iCalendar
	GET    /api/export/events.xml   xCal
	GET    /api/export/feed.atom    Atom feed

Request bodies are validated with (*event.EventForm).Validate before they
reach storage. Storage errors map onto status codes: storage.ErrNotFound is
404, storage.ErrInvalidInput and event.ErrInvalidEvent are 400,
storage.ErrConflict is 409 and storage.ErrStorageUnavailable is 503. Error
bodies are {"error": "..."}.

# Options

WithAuthenticator enables basic auth through a server/auth Authenticator;
read-only users may only GET. WithRateLimit applies a token bucket per client
address. WithLocation and WithFeed control the exports.
*/
package server
