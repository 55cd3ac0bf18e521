package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/tmori/wishnote/internal/auth"
)

func TestRequireServiceAuth(t *testing.T) {
	const token = "service-token"
	user := uuid.NewString()

	var gotUserID string
	handler := RequireServiceAuth(token)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		userHeader string
		wantStatus int
	}{
		{"valid", "Bearer service-token", user, http.StatusOK},
		{"missing authorization", "", user, http.StatusUnauthorized},
		{"wrong token", "Bearer wrong", user, http.StatusUnauthorized},
		{"missing bearer prefix", "service-token", user, http.StatusUnauthorized},
		{"missing user id", "Bearer service-token", "", http.StatusBadRequest},
		{"malformed user id", "Bearer service-token", "not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/push/subscriptions", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.userHeader != "" {
				req.Header.Set("X-User-ID", tt.userHeader)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotUserID != user {
				t.Errorf("user id on context = %q, want %q", gotUserID, user)
			}
			if tt.wantStatus != http.StatusOK && gotUserID != "" {
				t.Error("handler ran despite failed auth")
			}
		})
	}
}
