package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRequireAdminToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := []struct {
		name     string
		expected string
		sent     string
		want     int
	}{
		{"matching token", "op-token", "op-token", http.StatusNoContent},
		{"wrong token", "op-token", "guess", http.StatusUnauthorized},
		{"missing token", "op-token", "", http.StatusUnauthorized},
		{"unconfigured rejects all", "", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
			if tc.sent != "" {
				r.Header.Set("X-Admin-Token", tc.sent)
			}
			w := httptest.NewRecorder()
			RequireAdminToken(tc.expected, logger)(ok).ServeHTTP(w, r)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRequireAdminTokenHash(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	hash, err := bcrypt.GenerateFromPassword([]byte("op-token"), bcrypt.MinCost)
	require.NoError(t, err)

	cases := []struct {
		name string
		hash string
		sent string
		want int
	}{
		{"matching token", string(hash), "op-token", http.StatusNoContent},
		{"wrong token", string(hash), "guess", http.StatusUnauthorized},
		{"missing token", string(hash), "", http.StatusUnauthorized},
		{"malformed hash", "not-a-hash", "op-token", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/state", nil)
			if tc.sent != "" {
				r.Header.Set("X-Admin-Token", tc.sent)
			}
			w := httptest.NewRecorder()
			RequireAdminTokenHash(tc.hash, logger)(ok).ServeHTTP(w, r)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
