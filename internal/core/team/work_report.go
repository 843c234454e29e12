package team

import (
	"cmp"
	"context"
	"slices"
	"time"
)

// ListWorkReportsInput は業務報告一覧取得時の入力です。期間は両端を含み、タイムゾーン補正は行いません。
type ListWorkReportsInput struct {
	ManagerID string
	UserID    string
	CompanyID string
	StartDate *time.Time
	EndDate   *time.Time
	Status    *ReportStatus
}

// ListWorkReports はチーム全体の業務報告を取得します。
func (s *Service) ListWorkReports(ctx context.Context, in ListWorkReportsInput) ([]Scoped[WorkReport], error) {
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var statusPtr *ReportStatus
	if in.Status != nil {
		if !isValidReportStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		statusPtr = &status
	}

	start, end := cloneTime(in.StartDate), cloneTime(in.EndDate)

	result := []Scoped[WorkReport]{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ident, err := s.authorize(txCtx, in.ManagerID, in.UserID, in.CompanyID, false)
		if err != nil {
			return err
		}
		if ident.empty() {
			return nil
		}

		reports, err := s.store.ListWorkReports(txCtx, WorkReportQuery{
			IdentityFilter: ident,
			StartDate:      start,
			EndDate:        end,
			Status:         statusPtr,
		})
		if err != nil {
			return err
		}

		for _, report := range reports {
			if !ident.allows(report.Owner.UserID) || !reportMatches(report, start, end, statusPtr) {
				continue
			}
			if report.Comments == nil {
				report.Comments = []ReportComment{}
			}
			result = append(result, Decorate(report.Owner, report))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b Scoped[WorkReport]) int {
		return compareWorkReport(a.Record, b.Record)
	})
	return result, nil
}

func reportMatches(report WorkReport, start, end *time.Time, status *ReportStatus) bool {
	if start != nil && report.Date.Before(*start) {
		return false
	}
	if end != nil && report.Date.After(*end) {
		return false
	}
	if status != nil && report.Status != *status {
		return false
	}
	return true
}

func compareWorkReport(a, b WorkReport) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func isValidReportStatus(status ReportStatus) bool {
	switch status {
	case ReportStatusPending, ReportStatusSubmitted, ReportStatusApproved, ReportStatusRejected, ReportStatusRevision:
		return true
	default:
		return false
	}
}
