package http

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 15 * time.Second
	readHeaderTimeout      = 3 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Server serves an Echo instance until its context is cancelled, then drains
// in-flight requests.
type Server struct {
	e               *echo.Echo
	addr            string
	log             zerolog.Logger
	shutdownTimeout time.Duration
}

func NewServer(e *echo.Echo, addr string, log zerolog.Logger, shutdownTimeout time.Duration) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	e.Server.ReadTimeout = readTimeout
	e.Server.WriteTimeout = writeTimeout
	e.Server.ReadHeaderTimeout = readHeaderTimeout
	return &Server{e: e, addr: addr, log: log, shutdownTimeout: shutdownTimeout}
}

// Run blocks until ctx is done or the listener fails. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.log.Info().Str("addr", s.addr).Msg("http server listening")
		if err := s.e.Start(s.addr); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("start http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
