package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

// Server exposes the HTTP transport for the latency dashboard.
type Server struct {
	handler http.Handler
}

// NewServer constructs an HTTP server that forwards requests to the application service.
func NewServer(service domain.LatencyService, logger *infra.Logger, staticDir string) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(correlationMiddleware)
	router.Use(infra.HTTPMiddleware(func(r *http.Request) string {
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				return pattern
			}
		}
		return r.URL.Path
	}))

	h := &handler{service: service, logger: logger, staticDir: staticDir}
	registerRoutes(router, h)

	return &Server{handler: router}
}

// correlationMiddleware copies the chi request ID into the logger's
// correlation context so every log line for a request can be tied together.
func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			r = r.WithContext(infra.WithCorrelationID(r.Context(), reqID))
		}
		next.ServeHTTP(w, r)
	})
}

// Router returns the configured HTTP handler for reuse in tests or external HTTP servers.
func (s *Server) Router() http.Handler {
	return s.handler
}

// ServeHTTP allows Server to satisfy the http.Handler interface directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
