// Package router wires the HTTP surface: preview session APIs, health
// and metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/flossly/bot-builder/internal/http/middleware"
	"github.com/flossly/bot-builder/internal/preview"
	"github.com/flossly/bot-builder/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	PreviewHandler     *preview.Handler
	Webhooks           httpmiddleware.Webhooks
	BuilderAuthSecret  string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Preview APIs, guarded when a builder secret is configured
	r.Route("/api/preview", func(api chi.Router) {
		if cfg.BuilderAuthSecret != "" {
			api.Use(httpmiddleware.BuilderJWT(cfg.BuilderAuthSecret))
		}
		api.Use(httpmiddleware.EnvironmentRouter(cfg.Webhooks, cfg.Logger))

		api.Get("/ws", cfg.PreviewHandler.HandleWebSocket)
		api.Post("/sessions", cfg.PreviewHandler.HandleCreate)
		api.Get("/sessions/{sessionID}", cfg.PreviewHandler.HandleSnapshot)
		api.Post("/sessions/{sessionID}/events", cfg.PreviewHandler.HandleEvent)
		api.Delete("/sessions/{sessionID}", cfg.PreviewHandler.HandleDelete)
	})

	return r
}
