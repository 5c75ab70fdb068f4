package httpclient

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// maxLoggedBody limits how much of a request or response body is logged.
const maxLoggedBody = 2048

// BasicAuthTransport is an http.RoundTripper that signs every request with
// basic auth credentials and logs both directions at debug level.
type BasicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewBasicAuthTransport wraps transport, or http.DefaultTransport when nil.
func NewBasicAuthTransport(username, password string, transport http.RoundTripper, logger *slog.Logger) *BasicAuthTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BasicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: transport,
		Logger:    logger,
	}
}

// preview returns up to maxLoggedBody bytes of body and a reader yielding the
// complete body. Only the preview is buffered.
func preview(body io.ReadCloser) (string, io.ReadCloser) {
	if body == nil || body == http.NoBody {
		return "", body
	}
	head := make([]byte, maxLoggedBody)
	n, err := io.ReadFull(body, head)
	head = head[:n]
	rest := io.MultiReader(bytes.NewReader(head), body)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		rest = io.MultiReader(bytes.NewReader(head), errReader{err})
	}
	return string(head), readCloser{Reader: rest, Closer: body}
}

type readCloser struct {
	io.Reader
	io.Closer
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

// RoundTrip implements http.RoundTripper. The caller's request is not
// modified.
func (t *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Username == "" {
		return nil, errors.New("basic auth username cannot be empty")
	}
	next := t.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	debug := t.Logger.Enabled(req.Context(), slog.LevelDebug)

	out := req.Clone(req.Context())
	out.SetBasicAuth(t.Username, t.Password)
	if debug {
		var sent string
		sent, out.Body = preview(req.Body)
		t.Logger.Debug("outgoing request", "method", out.Method, "url", out.URL.String(), "body", sent)
	}

	resp, err := next.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if debug {
		var got string
		got, resp.Body = preview(resp.Body)
		t.Logger.Debug("incoming response",
			"status", resp.Status,
			"content_type", resp.Header.Get("Content-Type"),
			"body", got)
	}
	return resp, nil
}

var _ http.RoundTripper = (*BasicAuthTransport)(nil)
