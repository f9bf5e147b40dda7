// Package httptransport composes the feature routers into one handler.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "todotrack/internal/auth/handler"
	"todotrack/internal/platform/audit"
	taskhandler "todotrack/internal/task/handler"
)

// Deps carries everything the router mounts. Feature handlers bring their
// own middleware chains; only the operational endpoints live here.
type Deps struct {
	Auth     *authhandler.Handler
	Tasks    *taskhandler.Handler
	Audit    *audit.Handler
	Registry *prometheus.Registry
	Health   func(r *http.Request) error
}

// NewRouter wires all endpoints.
func NewRouter(deps Deps) http.Handler {
	router := chi.NewRouter()

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(r); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Registry != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	deps.Auth.Register(router)
	deps.Tasks.Register(router)
	if deps.Audit != nil {
		deps.Audit.Register(router)
	}

	return router
}
