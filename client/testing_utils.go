package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Mock types for testing

// recordedCall is one request seen by mockHTTPClient.
type recordedCall struct {
	method string
	url    string
	body   []byte
}

// mockHTTPClient answers every request with the configured JSON or error
// for its method and url.
type mockHTTPClient struct {
	mu        sync.Mutex
	calls     []recordedCall
	responses map[string]any   // "METHOD url" -> value encoded into out
	errors    map[string]error // "METHOD url" -> error returned
}

func newMockHTTPClient() *mockHTTPClient {
	return &mockHTTPClient{
		responses: make(map[string]any),
		errors:    make(map[string]error),
	}
}

func (m *mockHTTPClient) on(method, url string, resp any, err error) {
	key := method + " " + url
	m.responses[key] = resp
	if err != nil {
		m.errors[key] = err
	}
}

func (m *mockHTTPClient) handle(method, url string, in, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var body []byte
	if in != nil {
		body, _ = json.Marshal(in)
	}
	m.calls = append(m.calls, recordedCall{method: method, url: url, body: body})

	key := method + " " + url
	if err := m.errors[key]; err != nil {
		return err
	}
	resp, ok := m.responses[key]
	if !ok {
		return fmt.Errorf("unexpected request %s", key)
	}
	if out == nil || resp == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (m *mockHTTPClient) DoGET(_ context.Context, url string, out any) error {
	return m.handle("GET", url, nil, out)
}

func (m *mockHTTPClient) DoPOST(_ context.Context, url string, in, out any) error {
	return m.handle("POST", url, in, out)
}

func (m *mockHTTPClient) DoPUT(_ context.Context, url string, in, out any) error {
	return m.handle("PUT", url, in, out)
}

func (m *mockHTTPClient) DoDELETE(_ context.Context, url string) error {
	return m.handle("DELETE", url, nil, nil)
}
