package team

import (
	"cmp"
	"context"
	"slices"
)

// ListAttendanceInput は勤怠一覧取得時の入力です。Month / Year が 0 の場合は IST の当月です。
type ListAttendanceInput struct {
	ManagerID string
	UserID    string
	CompanyID string
	Month     int
	Year      int
}

// ListAttendance はチーム全体の月次勤怠を取得します。
func (s *Service) ListAttendance(ctx context.Context, in ListAttendanceInput) ([]Scoped[AttendanceEntry], error) {
	month, year := in.Month, in.Year
	if month == 0 && year == 0 {
		month, year = currentISTMonth(s.clock.Now())
	}

	window, err := MonthWindow(month, year)
	if err != nil {
		return nil, err
	}

	result := []Scoped[AttendanceEntry]{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ident, err := s.authorize(txCtx, in.ManagerID, in.UserID, in.CompanyID, false)
		if err != nil {
			return err
		}
		if ident.empty() {
			return nil
		}

		entries, err := s.store.ListAttendance(txCtx, AttendanceQuery{
			IdentityFilter: ident,
			Window:         &window,
		})
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if !ident.allows(entry.Owner.UserID) || !window.Contains(entry.Date) {
				continue
			}
			result = append(result, Decorate(entry.Owner, entry))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	sortAttendance(result)
	return result, nil
}

func sortAttendance(items []Scoped[AttendanceEntry]) {
	slices.SortStableFunc(items, func(a, b Scoped[AttendanceEntry]) int {
		return compareAttendance(a.Record, b.Record)
	})
}

func compareAttendance(a, b AttendanceEntry) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Owner.Name, b.Owner.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
