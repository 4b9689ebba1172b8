package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	request "warden/pkg/platform/middleware/request"
)

const headerAdminToken = "X-Admin-Token"

// RequireAdminToken guards operator endpoints (state dump, reset) with a
// static X-Admin-Token. An empty expected token rejects every request.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return guard(logger, func(token string) bool {
		return expectedToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) == 1
	})
}

// RequireAdminTokenHash is RequireAdminToken for deployments that configure
// only a bcrypt hash of the operator token.
func RequireAdminTokenHash(hash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return guard(logger, func(token string) bool {
		return hash != "" && token != "" &&
			bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
	})
}

func guard(logger *slog.Logger, valid func(token string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !valid(r.Header.Get(headerAdminToken)) {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", request.GetRequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
