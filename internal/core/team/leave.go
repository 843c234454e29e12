package team

import (
	"cmp"
	"context"
	"slices"
)

// ListLeaveRequestsInput は休暇申請一覧取得時の入力です。
type ListLeaveRequestsInput struct {
	ManagerID string
	UserID    string
	CompanyID string
	Status    *LeaveStatus
}

// ListLeaveRequests はチーム全体の休暇申請を取得します。
func (s *Service) ListLeaveRequests(ctx context.Context, in ListLeaveRequestsInput) ([]Scoped[LeaveRequest], error) {
	var statusPtr *LeaveStatus
	if in.Status != nil {
		if !isValidLeaveStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		statusPtr = &status
	}

	result := []Scoped[LeaveRequest]{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ident, err := s.authorize(txCtx, in.ManagerID, in.UserID, in.CompanyID, false)
		if err != nil {
			return err
		}
		if ident.empty() {
			return nil
		}

		leaves, err := s.store.ListLeaveRequests(txCtx, LeaveQuery{
			IdentityFilter: ident,
			Status:         statusPtr,
		})
		if err != nil {
			return err
		}

		for _, leave := range leaves {
			if !ident.allows(leave.Owner.UserID) {
				continue
			}
			if statusPtr != nil && leave.Status != *statusPtr {
				continue
			}
			result = append(result, Decorate(leave.Owner, leave))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b Scoped[LeaveRequest]) int {
		return compareLeave(a.Record, b.Record)
	})
	return result, nil
}

func compareLeave(a, b LeaveRequest) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func isValidLeaveStatus(status LeaveStatus) bool {
	switch status {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	default:
		return false
	}
}
