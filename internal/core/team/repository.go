package team

import (
	"context"
	"time"
)

// Hierarchy は組織階層を参照するコラボレーターです。
// 不明なマネージャーに対しては ErrManagerNotFound を返却します。
type Hierarchy interface {
	ResolveTeamMemberIDs(ctx context.Context, managerID string, companyID *string) ([]string, error)
	IsDirectlyOrIndirectlyManaged(ctx context.Context, managerID, targetUserID string) (bool, error)
}

// Store はドメインごとの読み取り専用ストアをまとめたものです。
type Store interface {
	AttendanceStore
	LeaveStore
	WorkReportStore
	PerformanceStore
	SalaryStore
	DirectoryStore
}

// AttendanceStore は勤怠レコードを参照します。
type AttendanceStore interface {
	ListAttendance(ctx context.Context, q AttendanceQuery) ([]AttendanceEntry, error)
}

// LeaveStore は休暇申請を参照します。
type LeaveStore interface {
	ListLeaveRequests(ctx context.Context, q LeaveQuery) ([]LeaveRequest, error)
}

// WorkReportStore は業務報告を参照します。
type WorkReportStore interface {
	ListWorkReports(ctx context.Context, q WorkReportQuery) ([]WorkReport, error)
}

// PerformanceStore は評価データを参照します。
type PerformanceStore interface {
	ListPerformance(ctx context.Context, q PerformanceQuery) ([]PerformanceSummary, error)
}

// SalaryStore は給与データを参照します。
type SalaryStore interface {
	ListSalaries(ctx context.Context, q SalaryQuery) ([]SalarySummary, error)
}

// DirectoryStore はユーザー・会社・部署の関連を参照します。
type DirectoryStore interface {
	FindMember(ctx context.Context, userID string) (*Member, error)
	ListMembers(ctx context.Context, q MemberQuery) ([]Member, error)
}

// IdentityFilter はすべてのクエリに共通する ID 条件です。
// ストアは必ず ScopeIDs で絞り込み、UserID が指定されていればさらに絞り込みます。
type IdentityFilter struct {
	ScopeIDs []string
	UserID   string
}

// AttendanceQuery は勤怠の検索条件です。Limit が 0 の場合は件数制限なしです。
type AttendanceQuery struct {
	IdentityFilter
	Window *DateWindow
	Limit  int
}

// LeaveQuery は休暇申請の検索条件です。
type LeaveQuery struct {
	IdentityFilter
	Status *LeaveStatus
	Limit  int
}

// WorkReportQuery は業務報告の検索条件です。
type WorkReportQuery struct {
	IdentityFilter
	StartDate *time.Time
	EndDate   *time.Time
	Status    *ReportStatus
	Limit     int
}

// PerformanceQuery は評価データの検索条件です。各 Limit が 0 以下の場合、その明細は取得しません。
type PerformanceQuery struct {
	IdentityFilter
	Period             *string
	KPILimit           int
	ReviewLimit        int
	InsightLimit       int
	ReportHistoryLimit int
}

// SalaryQuery は給与データの検索条件です。
type SalaryQuery struct {
	IdentityFilter
	IncrementLimit int
}

// MemberQuery はチームメンバー一覧の検索条件です。
type MemberQuery struct {
	IdentityFilter
	ManagerID       string
	CompanyID       *string
	IncludeInactive bool
}
