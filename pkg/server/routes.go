package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP handler serving the API and metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requireGET)
	r.Use(newRateLimitMiddleware(s.limiter))
	r.Use(noCacheMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/results", s.handleResults)
	r.Get("/api/summary", s.handleSummary)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: s.logger,
	}))

	return r
}
