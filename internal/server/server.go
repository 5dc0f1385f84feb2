package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"forexradar/internal/dashboard"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dashboard is the part of the session the HTTP layer drives.
type Dashboard interface {
	View() dashboard.View
	Refresh(ctx context.Context) error
	SetBalance(balance float64) error
	SetRiskPercent(fraction float64) error
}

// Server exposes the dashboard over HTTP.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// New creates a Server listening on the given port.
func New(port int, d Dashboard, logger *zap.Logger) *Server {
	logger = logger.Named("api-server")
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(d, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter wires the API routes.
func NewRouter(d Dashboard, logger *zap.Logger) http.Handler {
	h := &handler{dashboard: d, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.getDashboard)
		r.Post("/refresh", h.refresh)
		r.Put("/settings", h.updateSettings)
	})
	return r
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
