package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// RequireAdmin guards operational endpoints with a bcrypt-hashed password
// supplied via basic auth. The hash comes from configuration; the plaintext is
// never stored.
func RequireAdmin(passwordHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, password, ok := r.BasicAuth()
			if !ok || passwordHash == "" {
				writeUnauthorized(w, "Admin credentials required")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
				logger.WarnContext(r.Context(), "admin auth failed",
					"request_id", GetRequestID(r.Context()),
				)
				writeUnauthorized(w, "Admin credentials required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
