package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(ok)

	tests := []struct {
		name     string
		path     string
		cookie   bool
		expected int
	}{
		{"login page is public", "/login", false, http.StatusOK},
		{"static assets are public", "/static/app.js", false, http.StatusOK},
		{"metrics are public", "/metrics", false, http.StatusOK},
		{"api without cookie", "/api/counts", false, http.StatusUnauthorized},
		{"page without cookie", "/", false, http.StatusSeeOther},
		{"api with cookie", "/api/counts", true, http.StatusOK},
		{"page with cookie", "/", true, http.StatusOK},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.cookie {
			req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "true"})
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.expected {
			t.Errorf("%s: status = %d, expected %d", tt.name, rec.Code, tt.expected)
		}
	}
}
