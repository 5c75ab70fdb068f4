// Package memory keeps basic auth accounts in memory.
package memory

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/cyp0633/libcalrepeat/server/auth"
)

// ErrUserExists is returned by AddUser for a duplicate username.
var ErrUserExists = errors.New("user already exists")

// User is an account as configured.
type User struct {
	Username string
	Password string
	ReadOnly bool
}

type account struct {
	digest   [sha256.Size]byte
	readOnly bool
}

// Store is an auth.Authenticator over a fixed set of accounts. Only password
// digests are kept.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]account
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		accounts: make(map[string]account),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddUser registers u.
func (s *Store) AddUser(u User) error {
	if u.Username == "" {
		return errors.New("username is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[u.Username]; ok {
		return fmt.Errorf("%w: %s", ErrUserExists, u.Username)
	}
	s.accounts[u.Username] = account{
		digest:   sha256.Sum256([]byte(u.Password)),
		readOnly: u.ReadOnly,
	}
	s.logger.Debug("registered user", "username", u.Username, "read_only", u.ReadOnly)
	return nil
}

func (s *Store) Authenticate(ctx context.Context, username, password string) (*auth.Principal, error) {
	s.mu.RLock()
	acct, ok := s.accounts[username]
	s.mu.RUnlock()

	digest := sha256.Sum256([]byte(password))
	if !ok || subtle.ConstantTimeCompare(acct.digest[:], digest[:]) != 1 {
		s.logger.Info("authentication failed", "username", username, "known_user", ok)
		return nil, auth.ErrBadCredentials
	}
	return &auth.Principal{ID: username, ReadOnly: acct.readOnly}, nil
}

// ValidateAccess lets read-only accounts through for safe methods only.
func (s *Store) ValidateAccess(ctx context.Context, p *auth.Principal, method, path string) error {
	if p == nil {
		return auth.ErrBadCredentials
	}
	if !auth.IsSafeMethod(method) && !p.CanWrite() {
		s.logger.Info("write denied", "username", p.ID, "method", method, "path", path)
		return fmt.Errorf("%s %s: %w", method, path, auth.ErrReadOnly)
	}
	return nil
}

var _ auth.Authenticator = (*Store)(nil)
