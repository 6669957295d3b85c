// Package httptransport composes the public HTTP surface. It should delegate
// to domain services without embedding business logic so transport concerns
// remain isolated.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	interesthandler "amora/internal/interest/handler"
	matchhandler "amora/internal/match/handler"
	matchinghandler "amora/internal/matching/handler"
	"amora/pkg/platform/httputil"
	"amora/pkg/platform/middleware/auth"
	"amora/pkg/platform/middleware/metadata"
	"amora/pkg/platform/middleware/requestid"
	"amora/pkg/platform/middleware/requesttime"
)

// HealthCheck probes one dependency. Nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Deps are the wired handlers and cross-cutting dependencies the router
// mounts.
type Deps struct {
	Logger    *slog.Logger
	Validator auth.TokenValidator
	Matching  *matchinghandler.Handler
	Interest  *interesthandler.Handler
	Matches   *matchhandler.Handler
	Health    map[string]HealthCheck
}

// NewRouter wires all public endpoints under /v1 behind authentication, plus
// the unauthenticated operational endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(auth.RequireAuth(deps.Validator, deps.Logger))
		deps.Matching.Register(v1)
		deps.Interest.Register(v1)
		deps.Matches.Register(v1)
	})

	return r
}

func handleHealth(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"checks": results,
		})
	}
}
