package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roomboardhq/roomboard/internal/actions"
	"github.com/roomboardhq/roomboard/internal/conversation"
	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/infrastructure/configs"
	"github.com/roomboardhq/roomboard/internal/infrastructure/events"
	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/infrastructure/messaging"
	"github.com/roomboardhq/roomboard/internal/infrastructure/metrics"
	"github.com/roomboardhq/roomboard/internal/infrastructure/ratelimiter"
	"github.com/roomboardhq/roomboard/internal/infrastructure/tracing"
	"github.com/roomboardhq/roomboard/internal/infrastructure/ws"
	"github.com/roomboardhq/roomboard/internal/presentation/api"
	"github.com/roomboardhq/roomboard/internal/presentation/handler/health"
	"github.com/roomboardhq/roomboard/internal/presentation/handler/rooms"
	"github.com/roomboardhq/roomboard/internal/presentation/handler/session"
	"github.com/roomboardhq/roomboard/internal/registry"
	"github.com/roomboardhq/roomboard/internal/snapshot"
)

const (
	serviceName = "roomboard-api"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())
	logger.Init()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	wsCore := ws.NewCore(m)

	store := snapshot.NewStore(cfg.Snapshot.Path)

	registryOpts := []registry.Option{
		registry.WithObserver(m),
		registry.WithObserver(wsCore),
		registry.WithCodeLength(cfg.Rooms.CodeLength),
	}

	var rabbitmq *messaging.RabbitMQ
	if cfg.Events.Enabled {
		rabbitmq, err = messaging.NewRabbitMQ(cfg.Events.URI)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitmq.Close()

		logger.Info(logging.RabbitMQ, logging.Startup, "rabbitmq connected", nil)

		roomPublisher := events.NewRoomPublisher(rabbitmq, logger)
		registryOpts = append(registryOpts, registry.WithObserver(roomPublisher))
	}

	reg := registry.New(store, logger, registryOpts...)
	defer reg.Close()

	restored, err := reg.Restore()
	if err != nil {
		log.Fatal(err)
	}
	logger.Info(logging.Registry, logging.Startup, "snapshot restored", map[logging.ExtraKey]any{
		"rooms": restored,
	})

	catalog := domain.Catalog{Maps: cfg.Rooms.Maps, Modes: cfg.Rooms.Modes}
	machine := conversation.NewMachine(reg, conversation.Config{
		Catalog:       catalog,
		Lifetime:      cfg.Rooms.Lifetime,
		MaxHostLength: cfg.Rooms.MaxHostLength,
		CodeLength:    cfg.Rooms.CodeLength,
	}, logger)

	actionRouter := actions.NewRouter(reg, cfg.Rooms.Extension)

	wsCore.SetBoardSource(reg.List)
	wsCore.SetDispatcher(ws.NewDispatcher(machine, actionRouter, reg, logger))
	go wsCore.Run()

	roomHandler := rooms.NewHandler(reg, actionRouter, cfg.Rooms.CodeLength)
	healthHandler := health.NewHandler()
	sessionHandler := session.NewHandler(wsCore, logger)

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})
	app := api.NewApplication(*cfg, roomHandler, healthHandler, sessionHandler, logger, rl, m, promRegistry)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.General, logging.Shutdown, "server exited", map[logging.ExtraKey]any{
			"error": err.Error(),
		})
	}
}
