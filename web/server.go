package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const DefaultShutdownTimeout = 5 * time.Second

// Server runs a handler until its context is cancelled, then shuts down
// gracefully.
type Server struct {
	Address         string
	Handler         http.Handler
	ShutdownTimeout time.Duration
	Logger          *slog.Logger

	// Ready, when set, receives the bound address once listening.
	Ready chan<- string
}

func (s *Server) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	ln, err := net.Listen("tcp", s.Address)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.Handler, ReadHeaderTimeout: 10 * time.Second}

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Serve(ln)
	}()
	logger.Info("web.listening", "addr", ln.Addr().String())
	if s.Ready != nil {
		s.Ready <- ln.Addr().String()
	}

	select {
	case err := <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("web.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
