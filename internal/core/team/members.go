package team

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// ListTeamMembersInput はチームメンバー一覧取得時の入力です。
type ListTeamMembersInput struct {
	ManagerID       string
	CompanyID       string
	IncludeInactive bool
}

// ListTeamMembers はマネージャー本人を除くチームメンバーを所属会社付きで取得します。
func (s *Service) ListTeamMembers(ctx context.Context, in ListTeamMembersInput) ([]Scoped[TeamMember], error) {
	var companyFilter *string
	if trimmed := strings.TrimSpace(in.CompanyID); trimmed != "" {
		companyFilter = &trimmed
	}

	result := []Scoped[TeamMember]{}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ident, err := s.authorize(txCtx, in.ManagerID, "", in.CompanyID, true)
		if err != nil {
			return err
		}
		if ident.empty() {
			return nil
		}

		members, err := s.store.ListMembers(txCtx, MemberQuery{
			IdentityFilter:  ident,
			ManagerID:       strings.TrimSpace(in.ManagerID),
			CompanyID:       companyFilter,
			IncludeInactive: in.IncludeInactive,
		})
		if err != nil {
			return err
		}

		for _, member := range members {
			if !ident.allows(member.Owner.UserID) {
				continue
			}
			if companyFilter != nil && (member.Owner.CompanyID == nil || *member.Owner.CompanyID != *companyFilter) {
				continue
			}
			if !in.IncludeInactive && !member.IsActive {
				continue
			}
			result = append(result, Decorate(member.Owner, toTeamMember(member)))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b Scoped[TeamMember]) int {
		return compareOwner(
			Owner{Name: a.Record.Name, UserID: a.Record.UserID},
			Owner{Name: b.Record.Name, UserID: b.Record.UserID},
		)
	})
	return result, nil
}

func toTeamMember(member Member) TeamMember {
	tm := TeamMember{
		ID:            member.Owner.UserID,
		UserID:        member.Owner.UserID,
		Name:          member.Owner.Name,
		Email:         member.Owner.Email,
		Designation:   member.Designation,
		EmployeeCode:  member.EmployeeCode,
		DateOfJoining: cloneTime(member.DateOfJoining),
		BaseSalary:    member.BaseSalary,
		IsActive:      member.IsActive,
		AssignedAt:    member.CreatedAt,
	}
	if a := member.Assignment; a != nil {
		tm.ID = a.ID
		tm.Role = a.Role
		tm.IsActive = a.IsActive
		tm.AssignedAt = a.AssignedAt
	}
	return tm
}

// VerifyCompanyContext はユーザーの所属会社が期待する会社と一致するかを返します。
// 存在しないユーザーは不一致として扱います。
func (s *Service) VerifyCompanyContext(ctx context.Context, userID, expectedCompanyID string) (bool, error) {
	id, err := normalizeID(userID, ErrInvalidUserID)
	if err != nil {
		return false, err
	}
	expected := strings.TrimSpace(expectedCompanyID)

	member, err := s.store.FindMember(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}

	if member.Owner.CompanyID == nil {
		return false, nil
	}
	return *member.Owner.CompanyID == expected, nil
}
