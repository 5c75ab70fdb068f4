// memory based implementation for testing and single-process use
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/storage"
	"github.com/google/uuid"
)

// Store implements storage.Storage using an in-memory map
type Store struct {
	mu     sync.RWMutex
	events map[string]event.Event
	order  []string // ids in creation order
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides how event ids are assigned.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates a new in-memory storage
func New(opts ...Option) *Store {
	s := &Store{
		events: make(map[string]event.Event),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
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
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]event.Event, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.events[id])
	}
	return out, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return &ev, nil
}

func (s *Store) CreateEvent(ctx context.Context, form *event.EventForm) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkForm(form); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	if _, exists := s.events[id]; exists {
		return nil, fmt.Errorf("%w: id %s already used", storage.ErrConflict, id)
	}

	ev := event.Event{ID: id, EventForm: *form}
	s.events[id] = ev
	s.order = append(s.order, id)
	return &ev, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, form *event.EventForm) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkForm(form); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	ev := event.Event{ID: id, EventForm: *form}
	s.events[id] = ev
	return &ev, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	delete(s.events, id)
	s.order = slices.DeleteFunc(s.order, func(other string) bool { return other == id })
	return nil
}

var _ storage.Storage = (*Store)(nil)
