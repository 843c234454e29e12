package team

import (
	"cmp"
	"context"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GetTeamMemberProfileInput はチームメンバー詳細取得時の入力です。
type GetTeamMemberProfileInput struct {
	ManagerID    string
	TargetUserID string
}

// GetTeamMemberProfile は単一メンバーの直近データをドメイン横断で取得します。
// 各明細の取得失敗はその明細を空にするだけで、全体は失敗しません。
func (s *Service) GetTeamMemberProfile(ctx context.Context, in GetTeamMemberProfileInput) (*TeamMemberProfile, error) {
	managerID, err := normalizeID(in.ManagerID, ErrInvalidManagerID)
	if err != nil {
		return nil, err
	}
	targetID, err := normalizeID(in.TargetUserID, ErrInvalidUserID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureManaged(ctx, managerID, targetID); err != nil {
		return nil, err
	}

	member, err := s.store.FindMember(ctx, targetID)
	if err != nil {
		return nil, err
	}

	scoped := Decorate(member.Owner, member)
	profile := &TeamMemberProfile{
		UserID:           member.Owner.UserID,
		Name:             member.Owner.Name,
		Email:            member.Owner.Email,
		CompanyID:        scoped.CompanyID,
		CompanyName:      scoped.CompanyName,
		DepartmentName:   UnassignedDepartmentName,
		RecentAttendance: []AttendanceEntry{},
		PendingLeaves:    []LeaveRequest{},
		RecentReports:    []WorkReport{},
		RecentReviews:    []PerformanceReview{},
		IncrementHistory: []IncrementEvent{},
	}
	if member.DepartmentName != nil && *member.DepartmentName != "" {
		profile.DepartmentName = *member.DepartmentName
	}

	if member.EmployeeProfileID == nil {
		return profile, nil
	}

	// pgx.Tx は並行利用できないため、トランザクションを張らずにプールへ直接発行します。
	ident := IdentityFilter{ScopeIDs: []string{targetID}, UserID: targetID}
	logger := s.logger.WithFields(logrus.Fields{"manager_id": managerID, "target_user_id": targetID})

	var g errgroup.Group
	g.Go(s.profileSlice(logger, "attendance", func() error {
		entries, err := s.store.ListAttendance(ctx, AttendanceQuery{IdentityFilter: ident, Limit: profileAttendanceLimit})
		if err != nil {
			return err
		}
		entries = ownedBy(entries, targetID, func(e AttendanceEntry) string { return e.Owner.UserID })
		slices.SortStableFunc(entries, compareAttendance)
		profile.RecentAttendance = capSlice(entries, profileAttendanceLimit)
		return nil
	}))
	g.Go(s.profileSlice(logger, "leaves", func() error {
		pending := LeaveStatusPending
		leaves, err := s.store.ListLeaveRequests(ctx, LeaveQuery{IdentityFilter: ident, Status: &pending, Limit: profileLeaveLimit})
		if err != nil {
			return err
		}
		leaves = slices.DeleteFunc(leaves, func(l LeaveRequest) bool {
			return l.Owner.UserID != targetID || l.Status != LeaveStatusPending
		})
		slices.SortStableFunc(leaves, compareLeave)
		profile.PendingLeaves = capSlice(leaves, profileLeaveLimit)
		return nil
	}))
	g.Go(s.profileSlice(logger, "reports", func() error {
		reports, err := s.store.ListWorkReports(ctx, WorkReportQuery{IdentityFilter: ident, Limit: profileReportLimit})
		if err != nil {
			return err
		}
		reports = ownedBy(reports, targetID, func(r WorkReport) string { return r.Owner.UserID })
		slices.SortStableFunc(reports, compareWorkReport)
		profile.RecentReports = capSlice(reports, profileReportLimit)
		return nil
	}))
	g.Go(s.profileSlice(logger, "reviews", func() error {
		summaries, err := s.store.ListPerformance(ctx, PerformanceQuery{IdentityFilter: ident, ReviewLimit: profileReviewLimit})
		if err != nil {
			return err
		}
		var reviews []PerformanceReview
		for _, summary := range summaries {
			if summary.Owner.UserID == targetID {
				reviews = append(reviews, summary.Reviews...)
			}
		}
		slices.SortStableFunc(reviews, func(a, b PerformanceReview) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		profile.RecentReviews = capSlice(reviews, profileReviewLimit)
		return nil
	}))
	g.Go(s.profileSlice(logger, "increments", func() error {
		summaries, err := s.store.ListSalaries(ctx, SalaryQuery{IdentityFilter: ident, IncrementLimit: profileIncrementLimit})
		if err != nil {
			return err
		}
		var events []IncrementEvent
		for _, summary := range summaries {
			if summary.Owner.UserID == targetID {
				events = append(events, summary.IncrementHistory...)
			}
		}
		profile.IncrementHistory = sortIncrements(events, profileIncrementLimit)
		return nil
	}))

	// 各明細は失敗を握りつぶして nil を返すため、Wait はエラーを返しません。
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return profile, nil
}

// profileSlice は明細取得の失敗を記録し、空の明細のまま処理を継続させます。
func (s *Service) profileSlice(logger *logrus.Entry, slice string, fetch func() error) func() error {
	return func() error {
		if err := fetch(); err != nil {
			recordProfileSliceFailure(slice)
			logger.WithError(err).WithField("slice", slice).Warn("profile slice degraded to empty")
		}
		return nil
	}
}

func ownedBy[T any](items []T, userID string, owner func(T) string) []T {
	return slices.DeleteFunc(items, func(item T) bool { return owner(item) != userID })
}
