package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
)

const defaultRealm = "Events"

// Middleware requires valid basic auth credentials on every path except
// public. The principal is stored in the request context.
func Middleware(authenticator Authenticator, realm string, public ...string) func(http.Handler) http.Handler {
	if realm == "" {
		realm = defaultRealm
	}
	challenge := "Basic realm=" + strconv.Quote(realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(public, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", challenge)
				deny(w, http.StatusUnauthorized, "authentication required")
				return
			}

			principal, err := authenticator.Authenticate(r.Context(), username, password)
			if err != nil {
				w.Header().Set("WWW-Authenticate", challenge)
				deny(w, http.StatusUnauthorized, err.Error())
				return
			}

			if err := authenticator.ValidateAccess(r.Context(), principal, r.Method, r.URL.Path); err != nil {
				if errors.Is(err, ErrReadOnly) {
					deny(w, http.StatusForbidden, err.Error())
					return
				}
				w.Header().Set("WWW-Authenticate", challenge)
				deny(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
