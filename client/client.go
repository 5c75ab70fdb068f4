// Package client talks to the events REST API and implements storage.Storage
// on top of it.
package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cyp0633/libcalrepeat/internal/httpclient"
	"github.com/cyp0633/libcalrepeat/storage"
)

// EventsClient is a storage.Storage backed by a remote events API.
type EventsClient struct {
	httpClient httpclient.HttpClientWrapper
	eventsURL  string
}

// New creates a client for the collection at eventsURL (usually "/api/events"),
// resolved against the wrapper's base URL.
func New(httpClient httpclient.HttpClientWrapper, eventsURL string) *EventsClient {
	return &EventsClient{
		httpClient: httpClient,
		eventsURL:  strings.TrimSuffix(eventsURL, "/"),
	}
}

// Dial creates a client for the events API served at serverURL. Requests carry
// basic auth credentials when username is not empty.
func Dial(serverURL, username, password string, logger *slog.Logger) (*EventsClient, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: scheme and host are required", serverURL)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	if username != "" {
		httpClient.Transport = httpclient.NewBasicAuthTransport(username, password, nil, logger)
	}

	wrapper, err := httpclient.NewHttpClientWrapper(httpClient, *base, logger)
	if err != nil {
		return nil, err
	}
	return New(wrapper, "/api/events"), nil
}

func (c *EventsClient) eventURL(id string) string {
	return c.eventsURL + "/" + url.PathEscape(id)
}

// translateError maps transport failures onto the storage error types.
func translateError(op string, err error) error {
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrStorageUnavailable, err)
	}

	switch statusErr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w: %w", op, storage.ErrNotFound, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w: %w", op, storage.ErrInvalidInput, err)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w: %w", op, storage.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, storage.ErrStorageUnavailable, err)
	}
}

var _ storage.Storage = (*EventsClient)(nil)
