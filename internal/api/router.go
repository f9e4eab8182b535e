// Package api wires the child-mode admin surface: liveness, supervisor
// status, the ping log tail, and Prometheus metrics. In exec mode none of
// this runs — the supervisor's process image is gone.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"launchpad/internal/handlers"
	"launchpad/internal/middleware"
)

type Router struct {
	*mux.Router
}

func NewRouter(src handlers.StatusSource, logger zerolog.Logger) *Router {
	r := mux.NewRouter()

	statusHandler := handlers.NewStatusHandler(src, logger)

	r.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", statusHandler.GetStatus).Methods(http.MethodGet)
	api.HandleFunc("/pings", statusHandler.GetPings).Methods(http.MethodGet)

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	return &Router{Router: r}
}
