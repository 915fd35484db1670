package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/payments/internal/pkg/models"
	"github.com/sirupsen/logrus"
)

const defaultShutdownTimeout = 30 * time.Second

// GracefulServer wraps Echo server with graceful shutdown capabilities
type GracefulServer struct {
	echo            *echo.Echo
	log             logrus.FieldLogger
	address         string
	shutdownTimeout time.Duration
}

// NewGracefulServer creates a new server with graceful shutdown
func NewGracefulServer(e *echo.Echo, log logrus.FieldLogger, cfg models.ServerConfig) *GracefulServer {
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second

	shutdownTimeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &GracefulServer{
		echo:            e,
		log:             log,
		address:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		shutdownTimeout: shutdownTimeout,
	}
}

// Address returns the address the server listens on
func (s *GracefulServer) Address() string {
	return s.address
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
// It returns early if the listener cannot be started.
func (s *GracefulServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.log.WithField("address", s.address).Info("Starting HTTP server")

		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info("Received shutdown signal")
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server
func (s *GracefulServer) Shutdown() error {
	s.log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.log.WithError(err).Error("Server forced to shutdown")
		return err
	}

	s.log.Info("Server shutdown completed")
	return nil
}

// ShutdownManager runs registered cleanup functions on exit
type ShutdownManager struct {
	log       logrus.FieldLogger
	functions []namedCleanup
}

type namedCleanup struct {
	name string
	fn   func(context.Context) error
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager(log logrus.FieldLogger) *ShutdownManager {
	return &ShutdownManager{log: log}
}

// Register adds a cleanup function to be called during shutdown
func (sm *ShutdownManager) Register(name string, fn func(context.Context) error) {
	sm.functions = append(sm.functions, namedCleanup{name: name, fn: fn})
}

// Shutdown calls the registered functions in reverse registration order.
// A failing component does not stop the others; the first error is returned.
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	sm.log.WithField("components", len(sm.functions)).Info("Starting graceful shutdown of components")

	var firstErr error
	for i := len(sm.functions) - 1; i >= 0; i-- {
		c := sm.functions[i]
		if err := c.fn(ctx); err != nil {
			sm.log.WithError(err).WithField("component", c.name).Error("Error during component shutdown")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sm.log.WithField("component", c.name).Info("Component closed")
	}

	sm.log.Info("All components shutdown completed")
	return firstErr
}
