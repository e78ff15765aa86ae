// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"

	"ZeroTrustDashboard/internal/config"
	"ZeroTrustDashboard/internal/handler"
	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/middleware"
	"ZeroTrustDashboard/internal/websocket"

	"github.com/gorilla/mux"
)

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	cfg        *config.Config
	log        *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Server {
	router := mux.NewRouter()

	server := &Server{
		router: router,
		cfg:    cfg,
		log:    log,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}

	return server
}

// Handlers groups everything the router serves.
type Handlers struct {
	Telemetry *handler.TelemetryHandler
	Alerts    *handler.AlertHandler
	Control   *handler.ControlHandler
	Health    *handler.HealthHandler
	Hub       *websocket.Hub
}

// RegisterHandlers mounts the REST API under /api/v1, health probes at the
// root and the push channel at /ws. ctx bounds background middleware work.
func (s *Server) RegisterHandlers(ctx context.Context, h Handlers) {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.Use(middleware.RequestLogger(s.log))
	api.Use(middleware.CORS(s.cfg.Security.CORSAllowedOrigins, s.cfg.Security.CORSAllowedMethods))
	api.Use(middleware.Recovery(s.log))

	if s.cfg.Security.EnableRateLimit {
		api.Use(middleware.RateLimit(ctx, s.cfg.Security.RateLimitPerMinute))
	}

	h.Telemetry.RegisterRoutes(api)
	h.Alerts.RegisterRoutes(api)
	h.Control.RegisterRoutes(api)
	h.Health.RegisterRoutes(s.router)

	if h.Hub != nil {
		ws := middleware.RequestLogger(s.log)(middleware.Recovery(s.log)(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				websocket.ServeWs(h.Hub, w, r)
			},
		)))
		s.router.Handle("/ws", ws).Methods("GET")
	}

	s.log.Info("All handlers registered")
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}
