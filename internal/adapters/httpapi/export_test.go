package httpapi

import (
	"context"
	"net"
)

// ServeListener exposes serve for tests that need an ephemeral port.
func (s *Server) ServeListener(ctx context.Context, lis net.Listener) error {
	return s.serve(ctx, lis)
}
