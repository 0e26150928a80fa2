package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		method     string
		path       string
		authHeader string
		wantStatus int
	}{
		{"no token configured", "", http.MethodPost, "/v1/links", "", http.StatusOK},
		{"valid token", "secret", http.MethodPost, "/v1/links", "Bearer secret", http.StatusOK},
		{"missing header", "secret", http.MethodPost, "/v1/links", "", http.StatusUnauthorized},
		{"wrong token", "secret", http.MethodPost, "/v1/links", "Bearer wrong", http.StatusUnauthorized},
		{"wrong scheme", "secret", http.MethodPost, "/v1/links", "Basic secret", http.StatusUnauthorized},
		{"tracking route exempt", "secret", http.MethodGet, "/t/abc123XYZ0", "", http.StatusOK},
		{"collect route exempt", "secret", http.MethodPost, "/t/abc123XYZ0/collect/device", "", http.StatusOK},
		{"health exempt", "secret", http.MethodGet, "/v1/health", "", http.StatusOK},
		{"health post not exempt", "secret", http.MethodPost, "/v1/health", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AuthMiddleware(tt.token, okHandler())
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
