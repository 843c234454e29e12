package team

import (
	"cmp"
	"context"
	"slices"
)

// ListSalariesInput は給与データ取得時の入力です。
type ListSalariesInput struct {
	ManagerID string
	UserID    string
	CompanyID string
}

// ListSalaries はチームメンバーの給与と昇給履歴を取得します。マネージャー本人は常に除外されます。
func (s *Service) ListSalaries(ctx context.Context, in ListSalariesInput) ([]Scoped[SalarySummary], error) {
	result := []Scoped[SalarySummary]{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ident, err := s.authorize(txCtx, in.ManagerID, in.UserID, in.CompanyID, true)
		if err != nil {
			return err
		}
		if ident.empty() {
			return nil
		}

		summaries, err := s.store.ListSalaries(txCtx, SalaryQuery{
			IdentityFilter: ident,
			IncrementLimit: salaryIncrementLimit,
		})
		if err != nil {
			return err
		}

		for _, summary := range summaries {
			if !ident.allows(summary.Owner.UserID) {
				continue
			}
			summary.IncrementHistory = sortIncrements(summary.IncrementHistory, salaryIncrementLimit)
			result = append(result, Decorate(summary.Owner, summary))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b Scoped[SalarySummary]) int {
		return compareOwner(a.Record.Owner, b.Record.Owner)
	})
	return result, nil
}

func sortIncrements(events []IncrementEvent, limit int) []IncrementEvent {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b IncrementEvent) int {
		if c := b.EffectiveDate.Compare(a.EffectiveDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return capSlice(sorted, limit)
}
