// Package statusapi exposes the bridge's diagnostics: a health check,
// a JSON status snapshot, and a websocket feed of every AIS sentence
// published (spec §6, ambient stack).
package statusapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var errMissingOrInvalidBearer = errors.New("statusapi: missing or invalid bearer token")

// authenticator validates the bearer token on protected routes. It is
// deliberately narrow next to a full login system (spec §4: this
// bridge has no user accounts, only one shared status-API secret).
type authenticator struct {
	key []byte
}

func newAuthenticator(signingKey string) *authenticator {
	if signingKey == "" {
		return nil
	}
	return &authenticator{key: []byte(signingKey)}
}

// requireBearer wraps next so it only runs once the request carries a
// token signed with the configured key. A nil receiver means auth is
// disabled entirely, matching StatusHTTPConfig.AuthToken being unset.
func (a *authenticator) requireBearer(next http.Handler) http.Handler {
	if a == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := a.verify(r.Header.Get("Authorization")); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *authenticator) verify(header string) error {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return errMissingOrInvalidBearer
	}
	raw := strings.TrimPrefix(header, prefix)

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errMissingOrInvalidBearer
		}
		return a.key, nil
	})
	if err != nil || !token.Valid {
		return errMissingOrInvalidBearer
	}
	return nil
}
