package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mdzio/go-logging"

	"github.com/strefethen/sonos-transport/internal/api"
	"github.com/strefethen/sonos-transport/internal/apperrors"
	"github.com/strefethen/sonos-transport/internal/config"
	"github.com/strefethen/sonos-transport/internal/openapi"
	"github.com/strefethen/sonos-transport/internal/scheduler"
	"github.com/strefethen/sonos-transport/internal/sonos"
	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

var svrLog = logging.Get("server")

// Options controls server wiring.
type Options struct {
	// Executor replaces the SOAP client, e.g. with a fake device in tests.
	Executor sonos.Executor
	// DisableScheduler skips the configured schedule.
	DisableScheduler bool
}

// NewHandler builds the HTTP handler and returns a shutdown function.
func NewHandler(cfg config.Config, options Options) (http.Handler, func(context.Context) error, error) {
	exec := options.Executor
	if exec == nil {
		exec = soap.NewClient(time.Duration(cfg.SonosTimeoutMs) * time.Millisecond)
	}
	transport, err := sonos.NewAVTransportForHost(exec, cfg.DeviceHost)
	if err != nil {
		return nil, nil, err
	}
	svrLog.Infof("Controlling renderer at %s", transport.ControlURL())

	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(api.RequestIDMiddleware)
	router.Use(api.RequestLoggerMiddleware)
	router.Use(api.RecovererMiddleware)
	router.Use(api.DeadlineMiddleware(time.Duration(cfg.RequestTimeoutMs) * time.Millisecond))

	router.NotFound(api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return apperrors.NewNotFoundError("No route for "+r.Method+" "+r.URL.Path, nil)
	}).ServeHTTP)

	registerHealthRoutes(router, transport.ControlURL())
	openapi.RegisterRoutes(router)
	sonos.RegisterRoutes(router, transport)

	var sched *scheduler.Scheduler
	if !options.DisableScheduler && len(cfg.Schedule) > 0 {
		sched = scheduler.New(transport, time.Duration(cfg.RequestTimeoutMs)*time.Millisecond, time.Local)
		for _, entry := range cfg.Schedule {
			if err := sched.Add(entry); err != nil {
				return nil, nil, err
			}
		}
		sched.Start()
	}

	shutdown := func(ctx context.Context) error {
		if sched != nil {
			sched.Stop()
		}
		return nil
	}

	return router, shutdown, nil
}

func registerHealthRoutes(router chi.Router, controlURL string) {
	router.Method(http.MethodGet, "/v1/health", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		response := map[string]any{
			"status":      "healthy",
			"service":     "sonos-transport",
			"control_url": controlURL,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}
		return api.WriteJSON(w, http.StatusOK, response)
	}))
	router.Method(http.MethodGet, "/v1/health/live", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}))
}
