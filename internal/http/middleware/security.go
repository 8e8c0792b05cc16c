package middleware

import (
	"fmt"
	"net/http"

	"github.com/tendersuite/tender-api/internal/config"
)

type headerPair struct {
	name  string
	value string
}

func buildSecurityHeaders(cfg *config.SecurityConfig) []headerPair {
	var headers []headerPair
	if cfg.ContentTypeNosniff {
		headers = append(headers, headerPair{"X-Content-Type-Options", "nosniff"})
	}
	if cfg.FrameOptions != "" {
		headers = append(headers, headerPair{"X-Frame-Options", cfg.FrameOptions})
	}
	if cfg.XSSProtection != "" {
		headers = append(headers, headerPair{"X-XSS-Protection", cfg.XSSProtection})
	}
	if cfg.ContentSecurityPolicy != "" {
		headers = append(headers, headerPair{"Content-Security-Policy", cfg.ContentSecurityPolicy})
	}
	if cfg.ReferrerPolicy != "" {
		headers = append(headers, headerPair{"Referrer-Policy", cfg.ReferrerPolicy})
	}
	if cfg.PermissionsPolicy != "" {
		headers = append(headers, headerPair{"Permissions-Policy", cfg.PermissionsPolicy})
	}
	if cfg.EnableHSTS {
		hsts := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		headers = append(headers, headerPair{"Strict-Transport-Security", hsts})
	}
	return headers
}

// SecurityHeaders stamps the configured security headers on every
// response. The header set is computed once from config, not per
// request.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	headers := buildSecurityHeaders(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, h := range headers {
				w.Header().Set(h.name, h.value)
			}
			w.Header().Del("X-Powered-By")
			w.Header().Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}
