package relay

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ServerConfig holds configuration for the built-in net/http front end
type ServerConfig struct {
	// Port is the port to listen on (default: 8080, or $PORT)
	Port string

	// Host is the host to bind to (default: "")
	Host string

	// ShutdownTimeout is the timeout for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a server configuration with sensible defaults
func DefaultServerConfig() *ServerConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &ServerConfig{
		Port:            port,
		Host:            "",
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server mounts a Kernel on a net/http server with graceful shutdown. The
// engine adapters in pkg/relay/adapters are the alternative front ends.
type Server struct {
	kernel *Kernel
	config *ServerConfig
	server *http.Server
}

// NewServer creates a Server for the given kernel
func NewServer(kernel *Kernel, config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	return &Server{kernel: kernel, config: config}
}

// Start boots the kernel, starts the server and blocks until an interrupt
// signal arrives, then shuts down gracefully
func (s *Server) Start() error {
	s.kernel.Boot()

	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	s.server = &http.Server{Addr: addr, Handler: s.kernel}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("listening on %s", addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed to start")
	case <-quit:
	}

	logrus.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}

	logrus.Info("shutdown complete")
	return nil
}

// Stop shuts the server down, unblocking Start
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
