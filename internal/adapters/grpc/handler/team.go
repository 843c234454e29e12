package handler

import (
	"context"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	"google.golang.org/protobuf/types/known/structpb"
)

// TeamGrpcHandler は TeamService の gRPC 実装です。マネージャー ID は常に呼び出し元から取得します。
type TeamGrpcHandler struct {
	svc   team.UseCase
	authz RoleAuthorizer
}

var _ TeamServiceServer = (*TeamGrpcHandler)(nil)

// NewTeamGrpcHandler は TeamGrpcHandler を生成します。authz が nil の場合ロール判定を行いません。
func NewTeamGrpcHandler(svc team.UseCase, authz RoleAuthorizer) *TeamGrpcHandler {
	return &TeamGrpcHandler{svc: svc, authz: authz}
}

// ListAttendance はチームの月次勤怠を返します。
func (h *TeamGrpcHandler) ListAttendance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, f, err := h.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	in := team.ListAttendanceInput{ManagerID: caller.UserID}
	if in.UserID, err = f.str("userId"); err != nil {
		return nil, err
	}
	if in.CompanyID, err = f.str("companyId"); err != nil {
		return nil, err
	}
	if in.Month, err = f.integer("month"); err != nil {
		return nil, err
	}
	if in.Year, err = f.integer("year"); err != nil {
		return nil, err
	}

	items, err := h.svc.ListAttendance(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return itemsResponse(scopedItems(items, attendanceRecord))
}

// ListLeaveRequests はチームの休暇申請を返します。
func (h *TeamGrpcHandler) ListLeaveRequests(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, f, err := h.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	in := team.ListLeaveRequestsInput{ManagerID: caller.UserID}
	if in.UserID, err = f.str("userId"); err != nil {
		return nil, err
	}
	if in.CompanyID, err = f.str("companyId"); err != nil {
		return nil, err
	}
	raw, err := f.optionalStr("status")
	if err != nil {
		return nil, err
	}
	if raw != nil {
		s := team.LeaveStatus(*raw)
		in.Status = &s
	}

	items, err := h.svc.ListLeaveRequests(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return itemsResponse(scopedItems(items, leaveRecord))
}

// ListWorkReports はチームの業務報告をコメント付きで返します。
func (h *TeamGrpcHandler) ListWorkReports(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, f, err := h.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	in := team.ListWorkReportsInput{ManagerID: caller.UserID}
	if in.UserID, err = f.str("userId"); err != nil {
		return nil, err
	}
	if in.CompanyID, err = f.str("companyId"); err != nil {
		return nil, err
	}
	if in.StartDate, err = f.date("startDate"); err != nil {
		return nil, err
	}
	if in.EndDate, err = f.date("endDate"); err != nil {
		return nil, err
	}
	raw, err := f.optionalStr("status")
	if err != nil {
		return nil, err
	}
	if raw != nil {
		s := team.ReportStatus(*raw)
		in.Status = &s
	}

	items, err := h.svc.ListWorkReports(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return itemsResponse(scopedItems(items, workReportRecord))
}

// ListPerformance はチームメンバーの評価データを返します。
func (h *TeamGrpcHandler) ListPerformance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, f, err := h.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	in := team.ListPerformanceInput{ManagerID: caller.UserID}
	if in.UserID, err = f.str("userId"); err != nil {
		return nil, err
	}
	if in.CompanyID, err = f.str("companyId"); err != nil {
		return nil, err
	}
	if in.Period, err = f.str("period"); err != nil {
		return nil, err
	}

	items, err := h.svc.ListPerformance(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return itemsResponse(scopedItems(items, performanceRecord))
}

// ListSalaries はチームメンバーの給与と昇給履歴を返します。
func (h *TeamGrpcHandler) ListSalaries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, f, err := h.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	in := team.ListSalariesInput{ManagerID: caller.UserID}
	if in.UserID, err = f.str("userId"); err != nil {
		return nil, err
	}
	if in.CompanyID, err = f.str("companyId"); err != nil {
		return nil, err
	}

	items, err := h.svc.ListSalaries(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return itemsResponse(scopedItems(items, salaryRecord))
}

// GetTeamMemberProfile は単一メンバーの詳細を返します。
func (h *TeamGrpcHandler) GetTeamMemberProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, f, err := h.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	target, err := f.str("userId")
	if err != nil {
		return nil, err
	}

	profile, err := h.svc.GetTeamMemberProfile(ctx, team.GetTeamMemberProfileInput{
		ManagerID:    caller.UserID,
		TargetUserID: target,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toStruct(profileRecord(profile))
}

// ListTeamMembers はマネージャー本人を除くチームメンバーを返します。
func (h *TeamGrpcHandler) ListTeamMembers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, f, err := h.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	in := team.ListTeamMembersInput{ManagerID: caller.UserID}
	if in.CompanyID, err = f.str("companyId"); err != nil {
		return nil, err
	}
	if in.IncludeInactive, err = f.boolean("includeInactive"); err != nil {
		return nil, err
	}

	items, err := h.svc.ListTeamMembers(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return itemsResponse(scopedItems(items, teamMemberRecord))
}

func (h *TeamGrpcHandler) begin(ctx context.Context, req *structpb.Struct) (Caller, fields, error) {
	caller, err := h.authorizeCaller(ctx)
	if err != nil {
		return Caller{}, nil, err
	}
	f, err := requestFields(req)
	if err != nil {
		return Caller{}, nil, err
	}
	return caller, f, nil
}
