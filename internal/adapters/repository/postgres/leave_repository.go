package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgdb "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
)

// LeaveRepository は休暇申請の参照実装です。
type LeaveRepository struct {
	pool pgdb.Queryer
}

// NewLeaveRepository は LeaveRepository を生成します。
func NewLeaveRepository(pool pgdb.Queryer) *LeaveRepository {
	return &LeaveRepository{pool: pool}
}

// ListLeaveRequests は ID 条件と状態に一致する休暇申請を新しい順に返します。
func (r *LeaveRepository) ListLeaveRequests(ctx context.Context, q team.LeaveQuery) ([]team.LeaveRequest, error) {
	var status any
	if q.Status != nil {
		status = string(*q.Status)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT l.id,
               l.employee_id,
               l.type,
               l.start_date,
               l.end_date,
               l.reason,
               l.status,
               l.remarks,
               l.created_at,
               ap.name,
               ap.email,
               `+ownerColumns+`
          FROM leave_requests l
          JOIN employee_profiles ep ON ep.id = l.employee_id
          JOIN users u ON u.id = ep.user_id
          LEFT JOIN companies c ON c.id = u.company_id
          LEFT JOIN users ap ON ap.id = l.approved_by_id
         WHERE u.id = ANY($1)
           AND ($2::text IS NULL OR u.id = $2)
           AND ($3::text IS NULL OR l.status = $3)
         ORDER BY l.created_at DESC, l.id ASC
         LIMIT $4
    `, q.ScopeIDs, nullableText(q.UserID), status, nullableLimit(q.Limit))
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	leaves := make([]team.LeaveRequest, 0)
	for rows.Next() {
		leave, err := scanLeave(rows)
		if err != nil {
			return nil, translateTeamPgError(err)
		}
		leaves = append(leaves, leave)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}

	return leaves, nil
}

func scanLeave(row pgx.Row) (team.LeaveRequest, error) {
	var (
		leave         team.LeaveRequest
		status        string
		reason        sql.NullString
		remarks       sql.NullString
		startDate     time.Time
		endDate       time.Time
		createdAt     time.Time
		approverName  sql.NullString
		approverEmail sql.NullString
		owner         ownerScan
	)

	dest := []any{
		&leave.ID,
		&leave.EmployeeID,
		&leave.Type,
		&startDate,
		&endDate,
		&reason,
		&status,
		&remarks,
		&createdAt,
		&approverName,
		&approverEmail,
	}
	if err := row.Scan(append(dest, owner.targets()...)...); err != nil {
		return team.LeaveRequest{}, err
	}

	leave.Owner = owner.owner()
	leave.StartDate = startDate.UTC()
	leave.EndDate = endDate.UTC()
	leave.CreatedAt = createdAt.UTC()
	leave.Reason = reason.String
	leave.Remarks = remarks.String
	leave.Status = team.LeaveStatus(status)
	if approverName.Valid {
		leave.ApprovedBy = &team.Person{Name: approverName.String, Email: approverEmail.String}
	}
	return leave, nil
}
