// Package monitor serves Prometheus metrics and health probes.
package monitor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const readinessTimeout = 3 * time.Second

// Pinger checks that a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server exposes /metrics, /health/live and /health/ready.
type Server struct {
	echo      *echo.Echo
	addr      string
	database  Pinger
	startTime time.Time
	logger    *zap.Logger
}

// NewServer creates a monitoring server listening on addr.
func NewServer(addr string, database Pinger, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		addr:      addr,
		database:  database,
		startTime: time.Now(),
		logger:    logger.Named("monitor"),
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health/live", s.handleLiveness)
	e.GET("/health/ready", s.handleReadiness)

	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves in the background until Shutdown is called.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Serving metrics", zap.String("addr", s.addr))
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Monitoring server stopped", zap.Error(err))
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	if err := s.database.PingContext(ctx); err != nil {
		s.logger.Warn("Readiness check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":       "unhealthy",
			"failed_check": "postgres",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
