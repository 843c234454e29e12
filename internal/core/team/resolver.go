package team

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Scope はマネージャーが参照可能なユーザー ID の集合です。リクエストごとに再計算され、キャッシュされません。
type Scope struct {
	ManagerID     string
	CompanyFilter *string
	MemberIDs     []string

	members map[string]struct{}
}

// Contains は userID がスコープに含まれるかを返します。
func (s *Scope) Contains(userID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[userID]
	return ok
}

// Len はスコープに含まれるユーザー数を返します。
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.MemberIDs)
}

func newScope(managerID string, companyFilter *string, ids []string) *Scope {
	members := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := members[id]; dup {
			continue
		}
		members[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	return &Scope{
		ManagerID:     managerID,
		CompanyFilter: companyFilter,
		MemberIDs:     unique,
		members:       members,
	}
}

// ResolveScope はマネージャー配下の全ユーザー ID を解決します。
// companyID が空でない場合は当該会社に限定します。不明なマネージャーは ErrManagerNotFound です。
func (s *Service) ResolveScope(ctx context.Context, managerID, companyID string) (*Scope, error) {
	manager, err := normalizeID(managerID, ErrInvalidManagerID)
	if err != nil {
		return nil, err
	}

	var companyFilter *string
	if trimmed := strings.TrimSpace(companyID); trimmed != "" {
		companyFilter = &trimmed
	}

	ids, err := s.hierarchy.ResolveTeamMemberIDs(ctx, manager, companyFilter)
	if err != nil {
		if errors.Is(err, ErrManagerNotFound) {
			recordScopeResolution(scopeResultNotFound)
			s.logger.WithField("manager_id", manager).Warn("manager could not be resolved")
		} else {
			recordScopeResolution(scopeResultError)
		}
		return nil, err
	}

	scope := newScope(manager, companyFilter, ids)
	if scope.Len() == 0 {
		recordScopeResolution(scopeResultEmpty)
	} else {
		recordScopeResolution(scopeResultResolved)
	}

	fields := logrus.Fields{"manager_id": manager, "members": scope.Len()}
	if companyFilter != nil {
		fields["company_id"] = *companyFilter
	}
	s.logger.WithFields(fields).Debug("scope resolved")

	return scope, nil
}
