package server

import (
	"net/http"

	"github.com/openoda/geoaddress/internal/server/handlers"
	"github.com/openoda/geoaddress/internal/server/middleware"
)

// resourceTypes are the TMF673 resource collections served under the API
// path prefix.
var resourceTypes = []string{
	"geographicAddress",
	"geographicAddressValidation",
}

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.store,
		s.specs,
		s.config.Identity,
		s.config.PathPrefix,
		s.config.Database,
		s.cache,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	// TMF resource endpoints
	for _, resourceType := range resourceTypes {
		mux.HandleFunc(prefix+"/"+resourceType, h.HandleCollection(resourceType))
		mux.HandleFunc(prefix+"/"+resourceType+"/", h.HandleResource(resourceType))
	}

	// Real-time notification endpoints
	mux.HandleFunc(prefix+"/notifications/ws", h.HandleWebSocket)
	mux.HandleFunc(prefix+"/notifications/stream", h.HandleSSE)

	// API specification endpoints
	mux.HandleFunc(prefix+"/openapi.json", h.HandleOpenAPIJSON)
	mux.HandleFunc(prefix+"/openapi.yaml", h.HandleOpenAPIYAML)
	mux.HandleFunc(prefix+"/docs/", h.HandleDocs(prefix))

	// Metrics endpoint (optional)
	if s.config.MetricsEnabled {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	// The discovery document lives at the root. The catch-all pattern
	// also makes the entrypoint handler the 404 surface for unknown
	// paths.
	mux.HandleFunc("/", h.HandleEntrypoint)
}

// applyMiddleware wraps handler with the middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if cfg.MetricsEnabled {
		handler = s.metrics.Instrument(handler)
	}

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, s.logger)
		handler = limiter.Middleware()(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Outermost first: request ID, then logging, then panic recovery.
	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(s.logger),
		middleware.Recovery(s.logger),
	)(handler)
}
