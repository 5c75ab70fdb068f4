// Package auth guards the events API with HTTP basic auth.
package auth

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrBadCredentials is returned for an unknown user or a wrong password.
	ErrBadCredentials = errors.New("invalid username or password")
	// ErrReadOnly is returned when a read-only account tries to write.
	ErrReadOnly = errors.New("account is read-only")
)

// Principal is the account a request was authenticated as.
type Principal struct {
	ID       string
	ReadOnly bool
}

// CanWrite reports whether p may create, update or delete events.
func (p *Principal) CanWrite() bool {
	return p != nil && !p.ReadOnly
}

// Authenticator checks credentials and decides what a principal may do.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*Principal, error)
	// ValidateAccess returns ErrReadOnly (possibly wrapped) to reject a
	// request with 403; any other error yields 401.
	ValidateAccess(ctx context.Context, p *Principal, method, path string) error
}

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by the middleware.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
