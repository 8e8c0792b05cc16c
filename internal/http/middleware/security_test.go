package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendersuite/tender-api/internal/config"
	"github.com/tendersuite/tender-api/internal/http/middleware"
)

func serveWithSecurity(cfg *config.SecurityConfig) *httptest.ResponseRecorder {
	handler := middleware.SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenders", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestSecurityHeaders(t *testing.T) {
	t.Run("sets configured headers", func(t *testing.T) {
		rr := serveWithSecurity(&config.SecurityConfig{
			ContentTypeNosniff:    true,
			FrameOptions:          "DENY",
			XSSProtection:         "1; mode=block",
			ContentSecurityPolicy: "default-src 'self'",
			ReferrerPolicy:        "no-referrer",
		})

		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "1; mode=block", rr.Header().Get("X-XSS-Protection"))
		assert.Equal(t, "default-src 'self'", rr.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS value includes subdomains and preload", func(t *testing.T) {
		rr := serveWithSecurity(&config.SecurityConfig{
			EnableHSTS:            true,
			HSTSMaxAge:            31536000,
			HSTSIncludeSubdomains: true,
			HSTSPreload:           true,
		})

		assert.Equal(t, "max-age=31536000; includeSubDomains; preload",
			rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("disabled options leave headers unset", func(t *testing.T) {
		rr := serveWithSecurity(&config.SecurityConfig{})

		assert.Empty(t, rr.Header().Get("X-Content-Type-Options"))
		assert.Empty(t, rr.Header().Get("X-Frame-Options"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})
}
