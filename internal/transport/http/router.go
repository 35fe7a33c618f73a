// Package httptransport assembles the HTTP surface: middleware, the
// investigation API, and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	invchandler "github.com/edd1080/project-olympo-sub002/internal/investigation/handler"
	"github.com/edd1080/project-olympo-sub002/internal/platform/middleware"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/httputil"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/middleware/requestid"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/middleware/requesttime"
)

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Investigations *invchandler.Handler
	Logger         *slog.Logger

	// TokenValidator guards the investigation API when set; nil leaves the
	// API open (local development and tests).
	TokenValidator middleware.TokenValidator

	// Health is the readiness probe against the backing store; nil means
	// process-up equals ready.
	Health func(ctx context.Context) error
}

// NewRouter builds the full HTTP handler tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", handleHealth(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.TokenValidator != nil {
			r.Use(middleware.RequireAuth(cfg.TokenValidator, cfg.Logger))
		}
		cfg.Investigations.Register(r)
	})

	return r
}

func handleHealth(probe func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if probe != nil {
			if err := probe(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
