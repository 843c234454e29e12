package team

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnsureInScope は対象ユーザーが解決済みスコープに含まれることを確認します。
// 存在しないユーザーとスコープ外のユーザーはどちらも ErrForbidden です。
func EnsureInScope(targetUserID string, scope *Scope) error {
	target := strings.TrimSpace(targetUserID)
	if target == "" || !scope.Contains(target) {
		return ErrForbidden
	}
	return nil
}

// ensureManaged は単一対象向けの点検査です。一括経路の EnsureInScope と同じ判定になります。
func (s *Service) ensureManaged(ctx context.Context, managerID, targetUserID string) error {
	ok, err := s.hierarchy.IsDirectlyOrIndirectlyManaged(ctx, managerID, targetUserID)
	if err != nil {
		return err
	}
	recordAccessDecision(accessPathPointwise, ok)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"manager_id":     managerID,
			"target_user_id": targetUserID,
		}).Warn("target user is not managed by caller")
		return ErrForbidden
	}
	return nil
}
