package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/accounts"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer() *GRPCServer {
	return NewGRPCServer("", nopLogger{}, accounts.NewMemoryRepository())
}

func TestRequestID_FromMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.RequestIDMetadataKey, "req-1"))
	if got := requestID(ctx); got != "req-1" {
		t.Fatalf("requestID = %q, want req-1", got)
	}
	if got := requestID(context.Background()); got != "" {
		t.Fatalf("requestID without metadata = %q", got)
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := newTestServer()
	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Method"}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestRecoveryInterceptor_ConvertsPanic(t *testing.T) {
	s := newTestServer()
	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Method"}

	resp, err := s.recoveryInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		panic("boom")
	})
	if resp != nil {
		t.Fatalf("expected nil resp, got %v", resp)
	}
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}
