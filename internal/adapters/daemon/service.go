package daemon

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "strata.daemon.v1.DaemonService"

// Full method names.
const (
	MethodPing     = "/" + ServiceName + "/Ping"
	MethodStatus   = "/" + ServiceName + "/Status"
	MethodShutdown = "/" + ServiceName + "/Shutdown"
	MethodCall     = "/" + ServiceName + "/Call"
)

// Field names of the Call request and the Status response.
const (
	fieldTool          = "tool"
	fieldArguments     = "arguments"
	fieldRunning       = "running"
	fieldPID           = "pid"
	fieldUptime        = "uptime_seconds"
	fieldLastActivity  = "last_activity_unix"
	fieldIdleRemaining = "idle_remaining_seconds"
	fieldModels        = "models"
	fieldCalls         = "calls"
	fieldInFlight      = "in_flight"
	fieldLastTool      = "last_tool"
)

// daemonService is the server side of the daemon RPC surface. Messages are
// protobuf well-known types so no generated code is needed.
type daemonService interface {
	Ping(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Status(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Shutdown(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error)
	Call(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*daemonService)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Ping", daemonService.Ping),
		unaryMethod("Status", daemonService.Status),
		unaryMethod("Shutdown", daemonService.Shutdown),
		unaryMethod("Call", daemonService.Call),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "strata/daemon/v1/daemon.proto",
}

func unaryMethod[Req, Resp any](
	name string,
	call func(daemonService, context.Context, *Req) (Resp, error),
) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(daemonService), ctx, req.(*Req))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, handler)
		},
	}
}
