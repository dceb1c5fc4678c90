package handlers

import (
	"net/http"
	"slices"

	"i18n_portal/internal/config"

	"github.com/go-chi/cors"
)

const corsMaxAge = 300

// NewCORS builds the CORS middleware from configuration. Origins are passed
// through as configured. Header names are canonicalised (x-request-id is sent
// as X-Request-Id) and methods upper-cased, so a preflight echoes the
// requested headers in canonical form rather than the configured spelling.
func NewCORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           corsMaxAge,
	})
}

// checkOrigin admits websocket upgrades from the configured CORS origins.
// Requests without an Origin header come from non-browser clients.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := h.opts.CORS.AllowedOrigins
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}
