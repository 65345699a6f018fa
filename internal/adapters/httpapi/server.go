package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves the HTTP API until its context is done.
type Server struct {
	handler http.Handler
	addr    string
	logger  ports.Logger
}

// NewServer creates a server listening on addr.
func NewServer(svc Service, metrics http.Handler, addr string, logger ports.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		handler: NewRouter(svc, metrics),
		addr:    addr,
		logger:  logger,
	}
}

// Serve listens on the configured address and shuts down gracefully once ctx
// is done.
func (s *Server) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen for http"), "addr", s.addr)
	}
	return s.serve(ctx, lis)
}

func (s *Server) serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()
	s.logger.Info("http api listening", "addr", lis.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, "http server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "http shutdown failed")
		}
		return nil
	}
}
