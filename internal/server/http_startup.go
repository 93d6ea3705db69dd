package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/common"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/observability"
)

const shutdownTimeout = 30 * time.Second

// Run wires the application from cfg and serves until ctx is cancelled or
// the process receives SIGINT or SIGTERM
func Run(ctx context.Context, cfg *config.Config, version string, logger *recruiterErrors.Logger) error {
	om, err := initializeObservability(cfg, version, logger)
	if err != nil {
		return err
	}
	defer shutdownObservability(om, logger)

	app, err := common.NewApp(ctx, cfg, om, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.LogError(err, "Failed to close application")
		}
	}()

	services, err := app.Services()
	if err != nil {
		return fmt.Errorf("failed to initialize AI services: %w", err)
	}

	s := NewServer(cfg, ServerConfigFrom(cfg, version), Dependencies{
		Workspace:     app.Workspace,
		Assistants:    AssistantsFrom(services),
		Archive:       app.Archive,
		Observability: om,
	}, logger)

	if cfg.Watch(app.ApplySettings) {
		logger.Info("Watching config file for plan and log level changes")
	}

	s.displayServerInfo()
	return s.Start(ctx)
}

func initializeObservability(cfg *config.Config, version string, logger *recruiterErrors.Logger) (*observability.Manager, error) {
	om, err := observability.NewManager(observability.NewSettings(cfg, version), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return om, nil
}

func shutdownObservability(om *observability.Manager, logger *recruiterErrors.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		logger.LogError(err, "Failed to shutdown observability")
	}
}

// Start serves HTTP until ctx is cancelled or a termination signal arrives,
// then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.ReadTimeout,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		s.cleanupRateLimiter()
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown")
		return s.performGracefulShutdown(httpServer)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
