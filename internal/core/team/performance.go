package team

import (
	"cmp"
	"context"
	"slices"
	"strings"
)

// ListPerformanceInput は評価データ取得時の入力です。
type ListPerformanceInput struct {
	ManagerID string
	UserID    string
	CompanyID string
	Period    string
}

// ListPerformance はチームメンバーの KPI・評価・所見を取得します。マネージャー本人は常に除外されます。
func (s *Service) ListPerformance(ctx context.Context, in ListPerformanceInput) ([]Scoped[PerformanceSummary], error) {
	var period *string
	if trimmed := strings.TrimSpace(in.Period); trimmed != "" {
		period = &trimmed
	}

	result := []Scoped[PerformanceSummary]{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ident, err := s.authorize(txCtx, in.ManagerID, in.UserID, in.CompanyID, true)
		if err != nil {
			return err
		}
		if ident.empty() {
			return nil
		}

		summaries, err := s.store.ListPerformance(txCtx, PerformanceQuery{
			IdentityFilter:     ident,
			Period:             period,
			KPILimit:           performanceKPILimit,
			ReviewLimit:        performanceReviewLimit,
			InsightLimit:       performanceInsightLimit,
			ReportHistoryLimit: performanceReportHistoryLimit,
		})
		if err != nil {
			return err
		}

		for _, summary := range summaries {
			if !ident.allows(summary.Owner.UserID) {
				continue
			}
			result = append(result, Decorate(summary.Owner, normalizePerformance(summary, period)))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b Scoped[PerformanceSummary]) int {
		return compareOwner(a.Record.Owner, b.Record.Owner)
	})
	return result, nil
}

func normalizePerformance(summary PerformanceSummary, period *string) PerformanceSummary {
	kpis := summary.KPIs
	if period != nil {
		kpis = slices.DeleteFunc(slices.Clone(kpis), func(k KPI) bool { return k.Period != *period })
	}
	slices.SortStableFunc(kpis, func(a, b KPI) int { return b.CreatedAt.Compare(a.CreatedAt) })
	summary.KPIs = capSlice(kpis, performanceKPILimit)

	reviews := slices.Clone(summary.Reviews)
	slices.SortStableFunc(reviews, func(a, b PerformanceReview) int { return b.CreatedAt.Compare(a.CreatedAt) })
	summary.Reviews = capSlice(reviews, performanceReviewLimit)

	insights := slices.Clone(summary.Insights)
	slices.SortStableFunc(insights, func(a, b PerformanceInsight) int { return b.Date.Compare(a.Date) })
	summary.Insights = capSlice(insights, performanceInsightLimit)

	// グラフ表示用のため古い順です。
	history := slices.Clone(summary.ReportHistory)
	slices.SortStableFunc(history, func(a, b ReportRating) int { return a.Date.Compare(b.Date) })
	summary.ReportHistory = capSlice(history, performanceReportHistoryLimit)

	return summary
}

// ReportRatingOf は承認済み業務報告の評価値を返します。上長評価、自己評価、0 の順に採用します。
func ReportRatingOf(report WorkReport) int {
	if report.ManagerRating != nil && *report.ManagerRating != 0 {
		return *report.ManagerRating
	}
	if report.SelfRating != nil {
		return *report.SelfRating
	}
	return 0
}

func compareOwner(a, b Owner) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.UserID, b.UserID)
}
