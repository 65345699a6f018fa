package daemon

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ daemonService = (*Server)(nil)

// Dispatcher serves tool invocations. Results are JSON documents; failures
// are reported inside the document, never as Go errors.
type Dispatcher interface {
	Dispatch(ctx context.Context, tool string, args []byte) []byte
	ModelCount() int
}

// Server implements the daemon RPC service over a Unix domain socket.
type Server struct {
	lifecycle  *Lifecycle
	dispatcher Dispatcher
	logger     ports.Logger
	socketPath string
	pidPath    string
	grpcServer *grpc.Server
}

// NewServer creates a new daemon server.
func NewServer(lifecycle *Lifecycle, dispatcher Dispatcher, logger ports.Logger, socketPath, pidPath string) *Server {
	s := &Server{
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
		logger:     logger,
		socketPath: socketPath,
		pidPath:    pidPath,
	}
	s.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(s.recordActivity))
	s.grpcServer.RegisterService(&serviceDesc, s)
	return s
}

// Serve listens on the socket until ctx is done or shutdown is triggered.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create daemon directory")
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.Wrap(err, "failed to remove stale socket")
	}

	lis, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen on socket"), "socket", s.socketPath)
	}

	if err := os.Chmod(s.socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	if err := s.writePIDFile(); err != nil {
		_ = lis.Close()
		return err
	}
	defer s.cleanup()

	s.logger.Info("daemon listening", "socket", s.socketPath, "pid", os.Getpid())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.grpcServer.GracefulStop()
		return ctx.Err()
	case <-s.lifecycle.Done():
		s.logger.Info("daemon shutting down")
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

func (s *Server) cleanup() {
	_ = os.Remove(s.socketPath)
	_ = os.Remove(s.pidPath)
}

func (s *Server) writePIDFile() error {
	if err := os.MkdirAll(filepath.Dir(s.pidPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create daemon directory")
	}
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(s.pidPath, []byte(pid), domain.PrivateFilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write pid file"), "path", s.pidPath)
	}
	return nil
}

// recordActivity feeds the lifecycle. Tool calls hold the idle timer for
// their whole duration; Shutdown is not activity.
func (s *Server) recordActivity(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	switch info.FullMethod {
	case MethodShutdown:
	case MethodCall:
		end := s.lifecycle.Begin(toolName(req))
		defer end()
	default:
		s.lifecycle.Touch()
	}
	return handler(ctx, req)
}

func toolName(req any) string {
	if r, ok := req.(*structpb.Struct); ok {
		return r.GetFields()[fieldTool].GetStringValue()
	}
	return ""
}

// Ping implements the Ping RPC.
func (s *Server) Ping(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldIdleRemaining: int64(s.lifecycle.Stats().IdleRemaining.Seconds()),
	})
}

// Status implements the Status RPC.
func (s *Server) Status(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	stats := s.lifecycle.Stats()
	return structpb.NewStruct(map[string]any{
		fieldRunning:       true,
		fieldPID:           os.Getpid(),
		fieldUptime:        int64(stats.Uptime.Seconds()),
		fieldLastActivity:  stats.LastActivity.Unix(),
		fieldIdleRemaining: int64(stats.IdleRemaining.Seconds()),
		fieldModels:        s.dispatcher.ModelCount(),
		fieldCalls:         stats.Calls,
		fieldInFlight:      stats.InFlight,
		fieldLastTool:      stats.LastTool,
	})
}

// Shutdown implements the Shutdown RPC.
func (s *Server) Shutdown(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.lifecycle.Shutdown()
	return &emptypb.Empty{}, nil
}

// Call implements the Call RPC by forwarding to the dispatcher.
func (s *Server) Call(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	fields := req.GetFields()
	tool := fields[fieldTool].GetStringValue()
	if tool == "" {
		return nil, status.Error(codes.InvalidArgument, "tool name is required")
	}
	args := []byte(fields[fieldArguments].GetStringValue())
	return wrapperspb.Bytes(s.dispatcher.Dispatch(ctx, tool, args)), nil
}
