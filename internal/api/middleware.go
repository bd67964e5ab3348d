// Package api implements the screentime REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
	AuthModeJWT      = "jwt"
)

// AuthMiddleware returns middleware that validates a Bearer credential.
//
//   - disabled: all requests pass through.
//   - token: the Bearer value must equal secret.
//   - jwt: the Bearer value must be an unexpired HS256 JWT signed with secret.
func AuthMiddleware(mode, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mode == AuthModeDisabled || mode == "" {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			credential := strings.TrimPrefix(auth, "Bearer ")

			var ok bool
			switch mode {
			case AuthModeToken:
				ok = credential == secret
			case AuthModeJWT:
				ok = validJWT(credential, secret)
			}
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validJWT(raw, secret string) bool {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil && token.Valid
}
