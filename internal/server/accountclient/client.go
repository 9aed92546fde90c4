// Package accountclient is the HTTP tier's connection to the account service.
// One Client is created per process and shared by all requests.
package accountclient

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "github.com/dmitrijs2005/userhub/internal/proto/accounts/v1"
)

type Client struct {
	conn   *grpc.ClientConn
	client pb.AccountServiceClient
}

// New creates a lazily connecting client for addr. Extra options are
// appended to the defaults.
func New(addr string, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(requestIDInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("account service client: %w", err)
	}
	return &Client{conn: conn, client: pb.NewAccountServiceClient(conn)}, nil
}

// RemoveUser asks the account service to delete id. Remote InvalidArgument
// maps to common.ErrBadRequest; every other failure to
// common.ErrUpstreamUnavailable.
func (c *Client) RemoveUser(ctx context.Context, id string) (*models.RemovalResult, error) {
	reply, err := c.client.RemoveUser(ctx, &pb.RemoveUserRequest{Id: id})
	if err != nil {
		return nil, mapError(err)
	}
	return fromProtoReply(reply), nil
}

func fromProtoReply(reply *pb.RemoveUserReply) *models.RemovalResult {
	res := &models.RemovalResult{Message: reply.GetMessage()}
	if v := reply.GetAccount(); v != nil {
		res.Account = &models.AccountView{ID: v.GetId(), Username: v.GetUsername(), Role: models.Role(v.GetRole())}
	}
	return res
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func mapError(err error) error {
	st, ok := status.FromError(err)
	if ok && st.Code() == codes.InvalidArgument {
		return fmt.Errorf("%w: %s", common.ErrBadRequest, st.Message())
	}
	return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
}

func withRequestID(ctx context.Context, id string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.RequestIDMetadataKey, id)

	return metadata.NewOutgoingContext(ctx, md)
}

// requestIDInterceptor forwards the chi request id to the account service.
func requestIDInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if id := middleware.GetReqID(ctx); id != "" {
		ctx = withRequestID(ctx, id)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}
