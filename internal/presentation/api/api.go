package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/roomboardhq/roomboard/internal/infrastructure/configs"
	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/infrastructure/metrics"
	"github.com/roomboardhq/roomboard/internal/infrastructure/ratelimiter"
	healthHandler "github.com/roomboardhq/roomboard/internal/presentation/handler/health"
	roomHandler "github.com/roomboardhq/roomboard/internal/presentation/handler/rooms"
	sessionHandler "github.com/roomboardhq/roomboard/internal/presentation/handler/session"
)

type Application struct {
	config         configs.Config
	roomHandler    *roomHandler.Handler
	healthHandler  *healthHandler.Handler
	sessionHandler *sessionHandler.Handler
	logger         logging.Logger
	ratelimiter    ratelimiter.Limiter
	metrics        *metrics.Metrics
	promRegistry   *prometheus.Registry
}

func NewApplication(
	config configs.Config,
	roomHandler *roomHandler.Handler,
	healthHandler *healthHandler.Handler,
	sessionHandler *sessionHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
	m *metrics.Metrics,
	promRegistry *prometheus.Registry,
) *Application {
	return &Application{
		config:         config,
		roomHandler:    roomHandler,
		healthHandler:  healthHandler,
		sessionHandler: sessionHandler,
		logger:         logger,
		ratelimiter:    ratelimiter,
		metrics:        m,
		promRegistry:   promRegistry,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.loggerMiddleware)
	r.Use(app.prometheusMiddleware)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		// Request timeouts stay off the websocket route.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", app.roomHandler.ListRoomsHandler)
				r.Post("/{code}/actions/{verb}", app.roomHandler.RoomActionHandler)
			})

			r.Get("/health", app.healthHandler.GetHealth)
			r.Get("/healthz", app.healthHandler.GetHealth)
			r.Get("/ready", app.healthHandler.GetHealth)
			r.Get("/live", app.healthHandler.GetHealth)
		})

		r.Get("/session", app.sessionHandler.ConnectHandler)
	})

	r.Handle("/metrics", promhttp.HandlerFor(app.promRegistry, promhttp.HandlerOpts{}))

	return otelhttp.NewHandler(r, "roomboard.http")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
