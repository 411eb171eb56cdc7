// Package auth guards the API with an HS256 bearer token shared with the
// desktop shell.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
)

const issuer = "shoplite"

// Issue signs a token for subject valid for ttl from now.
func Issue(secret []byte, subject string, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("auth secret is empty")
	}

	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Middleware rejects requests without a valid bearer token. An empty secret
// disables the check.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(secret) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := verify(secret, r.Header.Get("Authorization")); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="shoplite"`)
				respond.Error(w, r, err)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func verify(secret []byte, header string) error {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return fmt.Errorf("missing bearer token: %w", apperr.ErrUnauthorized)
	}

	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}

	return nil
}
