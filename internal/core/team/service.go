package team

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	performanceKPILimit           = 20
	performanceReviewLimit        = 10
	performanceInsightLimit       = 10
	performanceReportHistoryLimit = 30
	salaryIncrementLimit          = 10

	profileAttendanceLimit = 30
	profileLeaveLimit      = 5
	profileReportLimit     = 5
	profileReviewLimit     = 3
	profileIncrementLimit  = 5
)

// UseCase はチーム参照ユースケースの公開インターフェースです。
type UseCase interface {
	ListAttendance(ctx context.Context, in ListAttendanceInput) ([]Scoped[AttendanceEntry], error)
	ListLeaveRequests(ctx context.Context, in ListLeaveRequestsInput) ([]Scoped[LeaveRequest], error)
	ListWorkReports(ctx context.Context, in ListWorkReportsInput) ([]Scoped[WorkReport], error)
	ListPerformance(ctx context.Context, in ListPerformanceInput) ([]Scoped[PerformanceSummary], error)
	ListSalaries(ctx context.Context, in ListSalariesInput) ([]Scoped[SalarySummary], error)
	GetTeamMemberProfile(ctx context.Context, in GetTeamMemberProfileInput) (*TeamMemberProfile, error)
	ListTeamMembers(ctx context.Context, in ListTeamMembersInput) ([]Scoped[TeamMember], error)
	VerifyCompanyContext(ctx context.Context, userID, expectedCompanyID string) (bool, error)
}

// Service はマネージャー配下のスコープ解決とドメイン横断の集約を行います。
type Service struct {
	hierarchy Hierarchy
	store     Store
	clock     Clock
	tx        TransactionManager
	logger    *logrus.Entry
}

// NewService は Service を生成します。clock / tx / logger は nil の場合デフォルトを使用します。
func NewService(hierarchy Hierarchy, store Store, clock Clock, tx TransactionManager, logger *logrus.Entry) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		hierarchy: hierarchy,
		store:     store,
		clock:     clock,
		tx:        tx,
		logger:    logger.WithField("component", "team"),
	}
}

// authorize はスコープを解決し、単一対象の指定があればガードを通したうえで ID 条件を返します。
func (s *Service) authorize(ctx context.Context, managerID, userID, companyID string, excludeManager bool) (IdentityFilter, error) {
	scope, err := s.ResolveScope(ctx, managerID, companyID)
	if err != nil {
		return IdentityFilter{}, err
	}

	target := strings.TrimSpace(userID)
	if target != "" {
		if err := EnsureInScope(target, scope); err != nil {
			recordAccessDecision(accessPathBulk, false)
			s.logger.WithFields(logrus.Fields{
				"manager_id":     scope.ManagerID,
				"target_user_id": target,
			}).Warn("target user is outside manager scope")
			return IdentityFilter{}, err
		}
		recordAccessDecision(accessPathBulk, true)
	}

	ids := scope.MemberIDs
	if excludeManager {
		ids = without(ids, scope.ManagerID)
	}

	return IdentityFilter{ScopeIDs: ids, UserID: target}, nil
}

// allows はレコード所有者が ID 条件を満たすかを返します。
func (f IdentityFilter) allows(userID string) bool {
	if f.UserID != "" && userID != f.UserID {
		return false
	}
	for _, id := range f.ScopeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (f IdentityFilter) empty() bool {
	return len(f.ScopeIDs) == 0
}

func without(ids []string, excluded string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != excluded {
			out = append(out, id)
		}
	}
	return out
}

func normalizeID(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func capSlice[T any](items []T, limit int) []T {
	if items == nil {
		return []T{}
	}
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}
