package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-account-core/pkg/logger"
)

// LoggingInterceptor 記錄每個 RPC 的方法、耗時與狀態碼
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		kv := []interface{}{
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Warn("rpc failed", append(kv, "error", err)...)
		} else {
			log.Debug("rpc handled", kv...)
		}
		return resp, err
	}
}
