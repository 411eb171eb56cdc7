package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shoplite/internal/http/auth"
)

var secret = []byte("test-secret")

func protected() http.Handler {
	return auth.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestMiddleware(t *testing.T) {
	valid, err := auth.Issue(secret, "desktop", time.Hour, time.Now())
	require.NoError(t, err)

	expired, err := auth.Issue(secret, "desktop", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	forged, err := auth.Issue([]byte("other-secret"), "desktop", time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "Valid", header: "Bearer " + valid, want: http.StatusNoContent},
		{name: "Missing", header: "", want: http.StatusUnauthorized},
		{name: "NotBearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "Expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "WrongSecret", header: "Bearer " + forged, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"kind":"unauthorized"`)
			}
		})
	}
}

func TestMiddleware_DisabledWithoutSecret(t *testing.T) {
	h := auth.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIssue_EmptySecret(t *testing.T) {
	_, err := auth.Issue(nil, "desktop", time.Hour, time.Now())
	assert.Error(t, err)
}
