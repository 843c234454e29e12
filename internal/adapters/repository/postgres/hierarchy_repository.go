package postgres

import (
	"context"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgdb "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
)

// teamScopeQuery はマネージャー本人、users.manager_id を辿った全部下 (会社を跨ぐ)、
// 有効な team_members の割り当ての和集合を返します。$1 はマネージャー ID、$2 は会社 ID (NULL で無制限) です。
// 循環した manager_id は path で打ち切ります。
const teamScopeQuery = `
        WITH RECURSIVE downline AS (
            SELECT u.id, u.company_id, ARRAY[u.id] AS path
              FROM users u
             WHERE u.manager_id = $1
               AND u.id <> $1
            UNION ALL
            SELECT u.id, u.company_id, d.path || u.id
              FROM users u
              JOIN downline d ON u.manager_id = d.id
             WHERE u.id <> $1
               AND NOT (u.id = ANY(d.path))
        )
        SELECT $1::text AS id
        UNION
        SELECT d.id
          FROM downline d
         WHERE $2::text IS NULL OR d.company_id = $2
        UNION
        SELECT tm.user_id
          FROM team_members tm
         WHERE tm.manager_id = $1
           AND tm.is_active
           AND ($2::text IS NULL OR tm.company_id = $2)
`

// HierarchyRepository は組織階層とチーム割り当てからマネージャーのスコープを解決します。
type HierarchyRepository struct {
	pool pgdb.Queryer
}

// NewHierarchyRepository は HierarchyRepository を生成します。
func NewHierarchyRepository(pool pgdb.Queryer) *HierarchyRepository {
	return &HierarchyRepository{pool: pool}
}

// ResolveTeamMemberIDs はマネージャー配下のユーザー ID を返します。
func (r *HierarchyRepository) ResolveTeamMemberIDs(ctx context.Context, managerID string, companyID *string) ([]string, error) {
	if err := r.ensureManagerExists(ctx, managerID); err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, teamScopeQuery+`
         ORDER BY id
    `, managerID, companyID)
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, translateTeamPgError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}

	return ids, nil
}

// IsDirectlyOrIndirectlyManaged は対象ユーザーがスコープに含まれるかを返します。
// ResolveTeamMemberIDs と同じクエリを用いるため、両者の判定は一致します。
func (r *HierarchyRepository) IsDirectlyOrIndirectlyManaged(ctx context.Context, managerID, targetUserID string) (bool, error) {
	if err := r.ensureManagerExists(ctx, managerID); err != nil {
		return false, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var managed bool
	if err := exec.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
              FROM (`+teamScopeQuery+`) scope
             WHERE scope.id = $3
        )
    `, managerID, nil, targetUserID).Scan(&managed); err != nil {
		return false, translateTeamPgError(err)
	}

	return managed, nil
}

func (r *HierarchyRepository) ensureManagerExists(ctx context.Context, managerID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, managerID).Scan(&exists); err != nil {
		return translateTeamPgError(err)
	}
	if !exists {
		return team.ErrManagerNotFound
	}
	return nil
}
