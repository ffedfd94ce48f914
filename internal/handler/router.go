package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/resume-console/internal/handler/console"
	"github.com/zhouzirui/resume-console/internal/metrics"
	"github.com/zhouzirui/resume-console/internal/view"
	"github.com/zhouzirui/resume-console/pkg/utils"
)

// NewRouter wires the console page, its actions and live view to HTTP routes.
// rec may be nil, in which case /metrics is not served.
func NewRouter(flows console.Flows, state *view.State, rec *metrics.Recorder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	consoleHandler := console.New(flows, state)

	r.Get("/", consoleHandler.HandleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if rec != nil {
		r.Method(http.MethodGet, "/metrics", rec.Handler())
	}

	r.Route("/ui", consoleHandler.RegisterRoutes)

	return r
}
