package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flossly/bot-builder/internal/api/router"
	appconfig "github.com/flossly/bot-builder/internal/config"
	"github.com/flossly/bot-builder/internal/dispatch"
	httpmiddleware "github.com/flossly/bot-builder/internal/http/middleware"
	"github.com/flossly/bot-builder/internal/observability/metrics"
	"github.com/flossly/bot-builder/internal/preview"
	"github.com/flossly/bot-builder/internal/simulator"
	"github.com/flossly/bot-builder/pkg/logging"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bot-builder API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	simMetrics := metrics.NewSimulatorMetrics(registry)

	webhooks := httpmiddleware.Webhooks{
		Dev:        endpointsFor(cfg, cfg.DevWebhookBase),
		Production: endpointsFor(cfg, cfg.ProductionWebhookBase),
	}

	// Rehearsal session manager
	manager := preview.NewManager(preview.ManagerOptions{
		Client:    &http.Client{Timeout: cfg.DispatchTimeout},
		Logger:    logger,
		Metrics:   simMetrics,
		Pacing:    pacingFor(cfg),
		AITimeout: cfg.AIReplyTimeout,
		TTL:       cfg.SessionTTL,
	})

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go manager.RunSweeper(sweepCtx, cfg.SessionSweepEvery)

	previewHandler := preview.NewHandler(manager, func(r *http.Request) dispatch.Endpoints {
		endpoints, ok := httpmiddleware.EndpointsFromContext(r.Context())
		if !ok {
			endpoints = webhooks.Dev
		}
		return endpoints
	}, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		PreviewHandler:     previewHandler,
		Webhooks:           webhooks,
		BuilderAuthSecret:  cfg.BuilderJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// WebSocket sessions stay open; only bound the header read.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	stopSweeper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func endpointsFor(cfg *appconfig.Config, base string) dispatch.Endpoints {
	return dispatch.Endpoints{
		Appointment: base + cfg.AppointmentPath,
		Brochure:    base + cfg.BrochurePath,
		Callback:    base + cfg.CallbackPath,
		AIAgent:     base + cfg.AIAgentPath,
	}
}

func pacingFor(cfg *appconfig.Config) simulator.Pacing {
	return simulator.Pacing{
		MessageLead:    cfg.MessageLeadDelay,
		Typing:         cfg.TypingDuration,
		OpeningStagger: cfg.OpeningStagger,
		OptionsReveal:  cfg.OptionsRevealDelay,
		Processing:     cfg.ProcessingDelay,
		Availability:   cfg.AvailabilityDelay,
		AIReply:        cfg.AIReplyDelay,
	}
}
