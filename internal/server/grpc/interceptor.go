package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.RequestIDMetadataKey); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// loggingInterceptor logs every unary call with the caller's request id.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "gRPC call",
		"method", info.FullMethod,
		"request_id", requestID(ctx),
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

// recoveryInterceptor turns a handler panic into codes.Internal.
func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "panic in gRPC handler", "method", info.FullMethod, "panic", p)
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}
