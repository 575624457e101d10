// Package server provides the HTTP server and routing for FII Sentinel.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/fiisentinel/internal/di"
	alerthandlers "github.com/aristath/fiisentinel/internal/modules/alerts/handlers"
	arbitragehandlers "github.com/aristath/fiisentinel/internal/modules/arbitrage/handlers"
	indicatorhandlers "github.com/aristath/fiisentinel/internal/modules/indicators/handlers"
	markethandlers "github.com/aristath/fiisentinel/internal/modules/market/handlers"
	signalhandlers "github.com/aristath/fiisentinel/internal/modules/signals/handlers"
	strategyhandlers "github.com/aristath/fiisentinel/internal/modules/strategies/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	DevMode   bool
	Container *di.Container // DI container with all services
	Jobs      *di.JobInstances
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	container      *di.Container
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		port:      cfg.Port,
		container: cfg.Container,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			time.Now(),
			cfg.Container.Scheduler,
			cfg.Jobs,
			cfg.Container.SnapshotStore,
			cfg.Container.MarketService,
			cfg.Container.HistoryDB,
		),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,

		// No read/write deadlines: they survive the WebSocket hijack and would
		// cut the event stream. API routes are bounded by middleware.Timeout.
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5, "application/json", "application/msgpack"))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	c := s.container

	s.router.Route("/api", func(r chi.Router) {
		// Event stream (WebSocket). Registered outside the timeout group
		// because the connection is long lived.
		eventsStreamHandler := NewEventsStreamHandler(c.EventBus, s.log)
		r.Get("/events/ws", eventsStreamHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// System monitoring
			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.systemHandlers.HandleSystemStatus)
				r.Get("/jobs", s.systemHandlers.HandleJobsStatus)
				r.Post("/jobs/{name}", s.systemHandlers.HandleTriggerJob)
				r.Get("/database", s.systemHandlers.HandleDatabaseStats)
			})

			indicatorhandlers.NewHandler(c.IndicatorService, c.HistoryRepo, s.log).RegisterRoutes(r)
			signalhandlers.NewHandler(c.IndicatorService, c.SignalEngine, c.HistoryRepo, s.log).RegisterRoutes(r)
			arbitragehandlers.NewHandler(c.ArbitrageDetector, c.SnapshotStore, s.log).RegisterRoutes(r)
			alerthandlers.NewHandler(c.AlertBook, c.SnapshotStore, c.MarketService, s.log).RegisterRoutes(r)
			strategyhandlers.NewHandler(c.StrategyCatalog, c.EventManager, s.log).RegisterRoutes(r)
			markethandlers.NewHandler(c.MarketService, c.HistoryRepo, s.log).RegisterRoutes(r)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
