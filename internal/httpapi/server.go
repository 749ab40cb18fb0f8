// Package httpapi provides the HTTP API for taranad.
package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/tarana-ai/taranad/internal/config"
)

// Reindexer rebuilds the vector index from the activity catalog.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// Server provides HTTP endpoints for retrieval and index maintenance.
type Server struct {
	echo         *echo.Echo
	orchestrator Orchestrator
	reindexer    Reindexer
	logger       *zap.Logger
	config       config.ServerConfig
}

// NewServer creates a new HTTP server.
func NewServer(orchestrator Orchestrator, reindexer Reindexer, logger *zap.Logger, cfg config.ServerConfig) (*Server, error) {
	if orchestrator == nil {
		return nil, fmt.Errorf("orchestrator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:         e,
		orchestrator: orchestrator,
		reindexer:    reindexer,
		logger:       logger,
		config:       cfg,
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	v1 := s.echo.Group("/v1")
	v1.POST("/search", s.handleSearch)
	v1.POST("/reindex", s.handleReindex)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
