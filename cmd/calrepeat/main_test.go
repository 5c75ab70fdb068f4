package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/server"
	"github.com/cyp0633/libcalrepeat/storage/memory"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rentTemplate = `{
  "title": "Rent",
  "date": "2025-01-31",
  "startTime": "09:00",
  "endTime": "09:30",
  "description": "",
  "location": "",
  "category": "home",
  "repeat": {"type": "monthly", "interval": 1, "endDate": "2025-06-30"},
  "notificationTime": 0
}`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "calrepeat.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExpandCommand(t *testing.T) {
	out, _, err := run(t, "expand", "--id", "rent", writeFile(t, rentTemplate))
	require.NoError(t, err)

	var instances []event.EventForm
	require.NoError(t, json.Unmarshal([]byte(out), &instances))
	require.Len(t, instances, 3)
	for i, want := range []string{"2025-01-31", "2025-03-31", "2025-05-31"} {
		assert.Equal(t, want, instances[i].Date.String())
		assert.Equal(t, mo.Some("rent"), instances[i].Repeat.ID)
		assert.True(t, instances[i].Repeat.SkipInvalidDates)
	}
}

func TestExpandCommandRRule(t *testing.T) {
	out, _, err := run(t, "expand", "--rrule", writeFile(t, rentTemplate))
	require.NoError(t, err)
	assert.Contains(t, out, "FREQ=MONTHLY")
}

func TestExpandCommandRejectsInvalidTemplate(t *testing.T) {
	_, _, err := run(t, "expand", writeFile(t, `{"title":"x","date":"2025-02-30"}`))
	assert.Error(t, err)
}

func TestSeriesCommandsAgainstServer(t *testing.T) {
	srv, err := server.New(memory.New())
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	_, stderr, err := run(t, "--server", ts.URL, "save", "--series-id", "rent", writeFile(t, rentTemplate))
	require.NoError(t, err)
	assert.Contains(t, stderr, "[success] Created 3 repeating events.")

	out, _, err := run(t, "--server", ts.URL, "list", "--json")
	require.NoError(t, err)
	var events []event.Event
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	assert.Len(t, events, 3)

	out, _, err = run(t, "--server", ts.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "2025-03-31")

	_, stderr, err = run(t, "--server", ts.URL, "delete", "--series", "rent")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[success] Deleted 3 repeating events.")

	out, _, err = run(t, "--server", ts.URL, "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestClientCommandFailsWithoutServer(t *testing.T) {
	_, stderr, err := run(t, "--server", "http://127.0.0.1:1", "list")
	assert.Error(t, err)
	assert.Contains(t, stderr, "[error] Failed to load events")
}
