// Package daemon implements the background daemon that keeps models cached
// between CLI invocations. It provides a gRPC server and client over a Unix
// domain socket.
package daemon

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ ports.DaemonClient = (*Client)(nil)

// Client implements ports.DaemonClient.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client for the daemon listening on socketPath.
// grpc.NewClient connects lazily on the first RPC.
func Dial(socketPath string) (*Client, error) {
	abs, err := filepath.Abs(socketPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve socket path")
	}

	conn, err := grpc.NewClient("unix://"+abs,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, zerr.Wrap(err, "daemon client creation failed")
	}
	return &Client{conn: conn}, nil
}

// Ping implements ports.DaemonClient.
func (c *Client) Ping(ctx context.Context) error {
	return c.invoke(ctx, MethodPing, &emptypb.Empty{}, new(structpb.Struct))
}

// Status implements ports.DaemonClient.
func (c *Client) Status(ctx context.Context) (*ports.DaemonStatus, error) {
	resp := new(structpb.Struct)
	if err := c.invoke(ctx, MethodStatus, &emptypb.Empty{}, resp); err != nil {
		return nil, err
	}

	fields := resp.GetFields()
	number := func(key string) int64 { return int64(fields[key].GetNumberValue()) }
	return &ports.DaemonStatus{
		Running:       fields[fieldRunning].GetBoolValue(),
		PID:           int(number(fieldPID)),
		Uptime:        time.Duration(number(fieldUptime)) * time.Second,
		LastActivity:  time.Unix(number(fieldLastActivity), 0),
		IdleRemaining: time.Duration(number(fieldIdleRemaining)) * time.Second,
		Models:        int(number(fieldModels)),
		Calls:         int(number(fieldCalls)),
		InFlight:      int(number(fieldInFlight)),
		LastTool:      fields[fieldLastTool].GetStringValue(),
	}, nil
}

// Call implements ports.DaemonClient.
func (c *Client) Call(ctx context.Context, tool string, args []byte) ([]byte, error) {
	req, err := structpb.NewStruct(map[string]any{
		fieldTool:      tool,
		fieldArguments: string(args),
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode call")
	}

	resp := new(wrapperspb.BytesValue)
	if err := c.invoke(ctx, MethodCall, req, resp); err != nil {
		return nil, zerr.With(err, "tool", tool)
	}
	return resp.GetValue(), nil
}

// Shutdown implements ports.DaemonClient.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.invoke(ctx, MethodShutdown, &emptypb.Empty{}, new(emptypb.Empty))
}

// Close implements ports.DaemonClient.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return zerr.With(errors.Join(domain.ErrDaemonCallFailed, err), "method", method)
	}
	return nil
}
