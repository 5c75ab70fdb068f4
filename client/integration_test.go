package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/cyp0633/libcalrepeat/client"
	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/notify"
	"github.com/cyp0633/libcalrepeat/operations"
	"github.com/cyp0633/libcalrepeat/server"
	authmem "github.com/cyp0633/libcalrepeat/server/auth/memory"
	"github.com/cyp0633/libcalrepeat/storage"
	"github.com/cyp0633/libcalrepeat/storage/memory"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, opts ...server.Option) *httptest.Server {
	t.Helper()
	s, err := server.New(memory.New(), opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func TestClientAgainstServer(t *testing.T) {
	ts := startServer(t)
	c, err := client.Dial(ts.URL, "", "", nil)
	require.NoError(t, err)
	ctx := context.Background()

	form := storage.NewMockEvent("", "Standup", "2025-06-02").EventForm
	created, err := c.CreateEvent(ctx, &form)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	form.Title = "Standup (remote)"
	updated, err := c.UpdateEvent(ctx, created.ID, &form)
	require.NoError(t, err)
	assert.Equal(t, "Standup (remote)", updated.Title)

	got, err := c.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *got)

	require.NoError(t, c.DeleteEvent(ctx, created.ID))
	_, err = c.GetEvent(ctx, created.ID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	bad := form
	bad.Date = event.Date{}
	_, err = c.CreateEvent(ctx, &bad)
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))
}

func TestClientWithBasicAuth(t *testing.T) {
	users := authmem.New()
	require.NoError(t, users.AddUser(authmem.User{Username: "alice", Password: "secret"}))
	ts := startServer(t, server.WithAuthenticator(users, "Events"))

	anonymous, err := client.Dial(ts.URL, "", "", nil)
	require.NoError(t, err)
	_, err = anonymous.ListEvents(context.Background())
	assert.True(t, errors.Is(err, storage.ErrStorageUnavailable))

	alice, err := client.Dial(ts.URL, "alice", "secret", nil)
	require.NoError(t, err)
	events, err := alice.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDialRejectsBadURL(t *testing.T) {
	_, err := client.Dial("localhost", "", "", nil)
	assert.Error(t, err)
}

func TestSeriesOverHTTP(t *testing.T) {
	ts := startServer(t)
	c, err := client.Dial(ts.URL, "", "", nil)
	require.NoError(t, err)

	rec := &notify.Recorder{}
	ops := operations.New(c, rec)
	tmpl := storage.NewMockEvent("", "Rent", "2025-01-31").EventForm
	tmpl.Repeat = event.RepeatInfo{
		Type:     event.RepeatMonthly,
		Interval: 1,
		EndDate:  mo.Some(event.MustParseDate("2025-12-31")),
	}

	n, err := ops.SaveSeries(context.Background(), tmpl, "rent")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	dates := make([]string, 0, n)
	for _, ev := range ops.Events() {
		assert.Equal(t, mo.Some("rent"), ev.Repeat.ID)
		dates = append(dates, ev.Date.String())
	}
	assert.ElementsMatch(t, []string{
		"2025-01-31", "2025-03-31", "2025-05-31", "2025-07-31",
		"2025-08-31", "2025-10-31", "2025-12-31",
	}, dates)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelSuccess, last.Level)
	assert.Equal(t, "Created 7 repeating events.", last.Message)
}
