package grpc

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/AraragiEro/kahuna-bot/internal/application/auth"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// DaemonClientGRPC sends mediator requests to a running daemon. It has the
// same Send signature as the mediator so callers can use either.
type DaemonClientGRPC struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewDaemonClientGRPC connects to the daemon's unix socket
func NewDaemonClientGRPC(socketPath string, timeout time.Duration) (*DaemonClientGRPC, error) {
	return DialDaemon("unix:"+socketPath, timeout)
}

// DialDaemon connects to target with extra dial options
func DialDaemon(target string, timeout time.Duration, opts ...grpc.DialOption) (*DaemonClientGRPC, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClientGRPC{conn: conn, timeout: timeout}, nil
}

// Close closes the gRPC connection
func (c *DaemonClientGRPC) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Send invokes the RPC bound to the request's type
func (c *DaemonClientGRPC) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	r, ok := routesByType[reflect.TypeOf(request)]
	if !ok {
		return nil, fmt.Errorf("no daemon method for %T", request)
	}

	in, err := encodeMessage(request)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if userID, err := auth.UserIDFromContext(ctx); err == nil {
		ctx = metadata.AppendToOutgoingContext(ctx, UserMetadataKey, userID)
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(r.method), in, out); err != nil {
		return nil, FromStatusError(err)
	}

	response := r.newResponse()
	if err := decodeMessage(out, response); err != nil {
		return nil, err
	}
	return response, nil
}

// FromStatusError turns user-facing daemon failures back into input errors
func FromStatusError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument, codes.NotFound:
		return shared.NewUserInputError("%s", st.Message())
	case codes.ResourceExhausted:
		return shared.NewUserInputError("%s", st.Message())
	case codes.Unavailable:
		return fmt.Errorf("daemon unavailable (is kahuna-daemon running?): %s", st.Message())
	default:
		return fmt.Errorf("daemon error (%s): %s", st.Code(), st.Message())
	}
}
