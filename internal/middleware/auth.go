package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tmori/wishnote/internal/auth"
)

// RequireServiceAuth validates server-to-server requests from the
// frontend: a shared bearer token plus an X-User-ID header naming the
// user the frontend is acting for. The user ID is placed on the request
// context.
func RequireServiceAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userID := r.Header.Get("X-User-ID")
			if _, err := uuid.Parse(userID); err != nil {
				http.Error(w, "invalid or missing X-User-ID", http.StatusBadRequest)
				return
			}

			ctx := auth.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
