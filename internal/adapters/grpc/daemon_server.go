package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/AraragiEro/kahuna-bot/internal/application/auth"
	"github.com/AraragiEro/kahuna-bot/internal/application/common"
	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
)

// UserMetadataKey carries the acting user on every call
const UserMetadataKey = "x-kahuna-user"

// PlanServiceServer is implemented by the daemon. Every RPC carries a
// structpb.Struct in both directions.
type PlanServiceServer interface {
	Call(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error)
}

// ServerOptions tunes the daemon server
type ServerOptions struct {
	// Requests per second admitted, 0 disables limiting
	RateLimit rate.Limit
	Burst     int
	Logger    common.PlannerLogger
}

// DaemonServer serves the PlanService over a unix socket, dispatching every
// call through the mediator
type DaemonServer struct {
	mediator mediator.Mediator
	listener net.Listener
	server   *grpc.Server
	logger   common.PlannerLogger

	stopOnce sync.Once
}

// NewDaemonServer listens on socketPath and prepares the gRPC server
func NewDaemonServer(m mediator.Mediator, socketPath string, opts ServerOptions) (*DaemonServer, error) {
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return NewDaemonServerWithListener(m, listener, opts), nil
}

// NewDaemonServerWithListener serves on an existing listener
func NewDaemonServerWithListener(m mediator.Mediator, listener net.Listener, opts ServerOptions) *DaemonServer {
	s := &DaemonServer{
		mediator: m,
		listener: listener,
		logger:   opts.Logger,
	}

	interceptors := []grpc.UnaryServerInterceptor{}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		interceptors = append(interceptors, RateLimitInterceptor(rate.NewLimiter(opts.RateLimit, burst)))
	}
	interceptors = append(interceptors, UserInterceptor())

	s.server = grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	RegisterPlanServiceServer(s.server, s)
	return s
}

// Start serves until Stop is called or the listener fails
func (s *DaemonServer) Start() error {
	s.log("INFO", "Daemon server listening", map[string]interface{}{"socket": s.listener.Addr().String()})
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC server error: %w", err)
	}
	return nil
}

// Stop drains in-flight calls, forcing a stop once timeout elapses
func (s *DaemonServer) Stop(timeout time.Duration) {
	s.stopOnce.Do(func() {
		done := make(chan struct{})
		go func() {
			s.server.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			s.log("WARNING", "Graceful shutdown timed out, forcing stop", nil)
			s.server.Stop()
		}
	})
}

// Call decodes the request of method, sends it through the mediator and
// encodes the response
func (s *DaemonServer) Call(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	r, ok := routesByMethod[method]
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "unknown method %s", method)
	}

	request := r.newRequest()
	if err := decodeMessage(in, request); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if s.logger != nil {
		ctx = common.WithLogger(ctx, s.logger)
	}
	response, err := s.mediator.Send(ctx, request)
	if err != nil {
		return nil, ToStatusError(err)
	}

	out, err := encodeMessage(response)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *DaemonServer) log(level, message string, metadata map[string]interface{}) {
	if s.logger != nil {
		s.logger.Log(level, message, metadata)
	}
}

// ToStatusError maps application errors onto gRPC codes
func ToStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case services.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case services.IsUserFacing(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// RateLimitInterceptor rejects calls beyond the limiter's budget
func RateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !limiter.Allow() {
			return nil, status.Error(codes.ResourceExhausted, "too many requests, retry shortly")
		}
		return handler(ctx, req)
	}
}

// UserInterceptor moves the acting user from call metadata into the context
func UserInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if users := md.Get(UserMetadataKey); len(users) > 0 && users[0] != "" {
				ctx = auth.WithUserID(ctx, users[0])
			}
		}
		return handler(ctx, req)
	}
}

// RegisterPlanServiceServer registers every PlanService method on s
func RegisterPlanServiceServer(s grpc.ServiceRegistrar, srv PlanServiceServer) {
	desc := grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*PlanServiceServer)(nil),
		Methods:     make([]grpc.MethodDesc, 0, len(routes)),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "kahuna/v1/plan_service",
	}
	for _, r := range routes {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: r.method,
			Handler:    methodHandler(r.method),
		})
	}
	s.RegisterService(&desc, srv)
}

func methodHandler(method string) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return srv.(PlanServiceServer).Call(ctx, method, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.(PlanServiceServer).Call(ctx, method, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
