package routes

import (
	"net/http"

	"github.com/bloomwell/maternity-ai/backend/internal/api/handlers"
	"github.com/bloomwell/maternity-ai/backend/internal/api/middleware"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	recommendHandler *handlers.RecommendHandler
	analyticsHandler *handlers.AnalyticsHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router. The analytics handler is nil when the audit
// database is not configured.
func NewRouter(
	recommendHandler *handlers.RecommendHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		recommendHandler: recommendHandler,
		analyticsHandler: analyticsHandler,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /{$}", r.recommendHandler.Status)

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	r.mux.HandleFunc("POST /ai/recommend", r.recommendHandler.Recommend)

	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/fallback-runs", r.analyticsHandler.GetFallbackRuns)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
