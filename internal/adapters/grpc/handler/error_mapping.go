package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// forbiddenMessage はスコープ外アクセスに返す固定メッセージです。対象の存在有無は含めません。
const forbiddenMessage = "access to the requested team member is not allowed"

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, team.ErrInvalidManagerID),
		errors.Is(err, team.ErrInvalidUserID),
		errors.Is(err, team.ErrInvalidMonth),
		errors.Is(err, team.ErrInvalidStatus),
		errors.Is(err, team.ErrInvalidDateRange):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, team.ErrManagerNotFound), errors.Is(err, team.ErrMemberNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, team.ErrForbidden):
		return status.Error(codes.PermissionDenied, forbiddenMessage)
	case errors.Is(err, team.ErrUpstreamUnavailable):
		return status.Error(codes.Unavailable, "team data is temporarily unavailable")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
