// Package sqlite stores events in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/storage"
	"github.com/google/uuid"
	"github.com/samber/mo"

	_ "modernc.org/sqlite"
)

// Store implements storage.Storage on top of database/sql.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for query diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func New(path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialised.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL DEFAULT '',
			end_time TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			repeat_type TEXT NOT NULL DEFAULT 'none',
			repeat_interval INTEGER NOT NULL DEFAULT 1,
			repeat_end TEXT,
			repeat_id TEXT,
			skip_invalid_dates INTEGER NOT NULL DEFAULT 0,
			notification_time INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_repeat_id ON events(repeat_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

const selectColumns = `id, title, date, start_time, end_time, description, location, category,
	repeat_type, repeat_interval, repeat_end, repeat_id, skip_invalid_dates, notification_time`

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*event.Event, error) {
	var (
		ev                  event.Event
		date                string
		repeatEnd, repeatID sql.NullString
	)
	if err := row.Scan(
		&ev.ID, &ev.Title, &date, &ev.StartTime, &ev.EndTime,
		&ev.Description, &ev.Location, &ev.Category,
		&ev.Repeat.Type, &ev.Repeat.Interval, &repeatEnd, &repeatID,
		&ev.Repeat.SkipInvalidDates, &ev.NotificationTime,
	); err != nil {
		return nil, err
	}

	d, err := event.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	ev.Date = d

	if repeatEnd.Valid {
		end, err := event.ParseDate(repeatEnd.String)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		ev.Repeat.EndDate = mo.Some(end)
	}
	if repeatID.Valid {
		ev.Repeat.ID = mo.Some(repeatID.String)
	}
	return &ev, nil
}

func nullable[T any](o mo.Option[T], format func(T) string) sql.NullString {
	v, ok := o.Get()
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: format(v), Valid: true}
}

// values returns the column values of form in selectColumns order, minus id.
func values(form *event.EventForm) []any {
	return []any{
		form.Title, form.Date.String(), form.StartTime, form.EndTime,
		form.Description, form.Location, form.Category,
		string(form.Repeat.Type), form.Repeat.Interval,
		nullable(form.Repeat.EndDate, event.Date.String),
		nullable(form.Repeat.ID, func(s string) string { return s }),
		form.Repeat.SkipInvalidDates, form.NotificationTime,
	}
}

func checkForm(form *event.EventForm) error {
	if form == nil {
		return fmt.Errorf("%w: missing event", storage.ErrInvalidInput)
	}
	if strings.TrimSpace(form.Title) == "" {
		return fmt.Errorf("%w: missing title", storage.ErrInvalidInput)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM events ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query events: %v", storage.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	list := make([]event.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		list = append(list, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
	}

	s.logger.Debug("listed events", "count", len(list))
	return list, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	return ev, nil
}

func (s *Store) CreateEvent(ctx context.Context, form *event.EventForm) (*event.Event, error) {
	if err := checkForm(form); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	stmt := `INSERT INTO events (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, stmt, append([]any{id}, values(form)...)...); err != nil {
		return nil, fmt.Errorf("%w: failed to create event: %v", storage.ErrStorageUnavailable, err)
	}

	s.logger.Debug("created event", "id", id, "title", form.Title, "date", form.Date)
	return &event.Event{ID: id, EventForm: *form}, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, form *event.EventForm) (*event.Event, error) {
	if err := checkForm(form); err != nil {
		return nil, err
	}

	stmt := `UPDATE events SET
		title = ?, date = ?, start_time = ?, end_time = ?, description = ?, location = ?, category = ?,
		repeat_type = ?, repeat_interval = ?, repeat_end = ?, repeat_id = ?,
		skip_invalid_dates = ?, notification_time = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, stmt, append(values(form), id)...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update event: %v", storage.ErrStorageUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	s.logger.Debug("updated event", "id", id)
	return &event.Event{ID: id, EventForm: *form}, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete event: %v", storage.ErrStorageUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	s.logger.Debug("deleted event", "id", id)
	return nil
}

var _ storage.Storage = (*Store)(nil)
