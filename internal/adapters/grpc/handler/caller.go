package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	// MetadataUserID は認証済み呼び出し元のユーザー ID を運ぶメタデータキーです。
	MetadataUserID = "x-user-id"
	// MetadataUserRole は認証済み呼び出し元のロールを運ぶメタデータキーです。
	MetadataUserRole = "x-user-role"
)

// RoleAuthorizer はロールがチーム参照 API を利用できるかを判定します。
type RoleAuthorizer interface {
	CanReadTeam(role string) (bool, error)
}

// Caller は上流で認証済みの呼び出し元です。
type Caller struct {
	UserID string
	Role   string
}

// CallerFromContext は受信メタデータから呼び出し元を取り出します。
func CallerFromContext(ctx context.Context) (Caller, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return Caller{}, false
	}
	caller := Caller{
		UserID: firstValue(md, MetadataUserID),
		Role:   strings.ToUpper(firstValue(md, MetadataUserRole)),
	}
	if caller.UserID == "" {
		return Caller{}, false
	}
	return caller, true
}

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func (h *TeamGrpcHandler) authorizeCaller(ctx context.Context) (Caller, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return Caller{}, status.Error(codes.Unauthenticated, "caller identity is required")
	}
	if h.authz == nil {
		return caller, nil
	}
	allowed, err := h.authz.CanReadTeam(caller.Role)
	if err != nil {
		return Caller{}, status.Error(codes.Internal, err.Error())
	}
	if !allowed {
		return Caller{}, status.Error(codes.PermissionDenied, "role is not allowed to view team data")
	}
	return caller, nil
}
