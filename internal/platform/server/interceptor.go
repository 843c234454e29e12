package server

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/adapters/grpc/handler"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// MetadataRequestID はリクエスト ID を運ぶメタデータキーです。
const MetadataRequestID = "x-request-id"

type requestIDKey struct{}

// RequestIDFromContext はインターセプターが付与したリクエスト ID を返します。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDInterceptor は受信メタデータのリクエスト ID を引き継ぎ、なければ採番します。
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(MetadataRequestID); len(values) > 0 {
				id = strings.TrimSpace(values[0])
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		// ヘッダー送信はストリームがない場合に失敗しますが、処理は継続します。
		_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataRequestID, id))

		return next(context.WithValue(ctx, requestIDKey{}, id), req)
	}
}

// LoggingInterceptor は RPC ごとに結果コードと所要時間を記録します。
func LoggingInterceptor(logger *logrus.Entry) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		code := status.Code(err)
		entry := logger.WithFields(logrus.Fields{
			"method":      info.FullMethod,
			"code":        code.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if id := RequestIDFromContext(ctx); id != "" {
			entry = entry.WithField("request_id", id)
		}
		if caller, ok := handler.CallerFromContext(ctx); ok {
			entry = entry.WithField("caller_id", caller.UserID)
		}

		switch code {
		case codes.OK:
			entry.Info("rpc completed")
		case codes.Internal, codes.Unavailable, codes.Unknown:
			entry.WithError(err).Error("rpc failed")
		default:
			entry.WithError(err).Warn("rpc rejected")
		}
		return resp, err
	}
}
