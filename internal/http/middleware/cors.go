package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/tendersuite/tender-api/internal/config"
	"go.uber.org/zap"
)

func isDevEnvironment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

func allowAnyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}

func denyAllOrigins(r *http.Request, origin string) bool {
	return false
}

// CORS builds the cross-origin policy from config. A wildcard origin is
// honored but flagged outside development; an empty origin list denies
// all cross-origin requests in deployed environments rather than
// falling back to the library's permissive default.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !isDevEnvironment(environment) {
			logger.Warn("CORS wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAnyOrigin

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS restricted to configured origins",
			zap.Strings("origins", cfg.AllowedOrigins))

	case isDevEnvironment(environment):
		options.AllowOriginFunc = allowAnyOrigin
		logger.Info("CORS allowing all origins in development")

	default:
		options.AllowOriginFunc = denyAllOrigins
		logger.Warn("CORS has no allowed origins, denying cross-origin requests",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
