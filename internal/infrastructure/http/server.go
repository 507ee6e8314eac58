package http

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/infrastructure/config"
)

// Server wraps the Gin engine in a standard net/http.Server so callers get
// read/write/idle timeouts and a graceful Shutdown.
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

func NewServer(cfg *config.Config, engine http.Handler, logger *zap.Logger) *Server {
	return &Server{
		config: cfg,
		logger: logger.Named("http-server"),
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        engine,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}
}

// Start starts the HTTP server. It blocks until the server stops or fails.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("address", s.server.Addr), zap.String("environment", s.config.App.Environment))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server, honoring ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
