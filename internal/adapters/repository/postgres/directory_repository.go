package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgdb "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

const memberColumns = ownerColumns + `,
               u.department_id,
               d.name,
               ep.id,
               ep.employee_code,
               ep.designation,
               ep.date_of_joining,
               ep.base_salary,
               u.is_active,
               u.created_at`

const memberJoins = `
          FROM users u
          LEFT JOIN companies c ON c.id = u.company_id
          LEFT JOIN departments d ON d.id = u.department_id
          LEFT JOIN employee_profiles ep ON ep.user_id = u.id`

// DirectoryRepository はユーザーの所属情報の参照実装です。
type DirectoryRepository struct {
	pool pgdb.Queryer
}

// NewDirectoryRepository は DirectoryRepository を生成します。
func NewDirectoryRepository(pool pgdb.Queryer) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

// FindMember はユーザーの所属情報を取得します。存在しない場合は team.ErrMemberNotFound です。
func (r *DirectoryRepository) FindMember(ctx context.Context, userID string) (*team.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+memberColumns+`,
               NULL::text,
               NULL::text,
               NULL::timestamptz,
               NULL::boolean`+memberJoins+`
         WHERE u.id = $1
         LIMIT 1
    `, userID)

	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, team.ErrMemberNotFound
		}
		return nil, translateTeamPgError(err)
	}
	return member, nil
}

// ListMembers はスコープ内のユーザーを、マネージャーへの明示的な割り当てがあればそれと合わせて返します。
func (r *DirectoryRepository) ListMembers(ctx context.Context, q team.MemberQuery) ([]team.Member, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+memberColumns+`,
               tm.id,
               tm.role,
               tm.assigned_at,
               tm.is_active`+memberJoins+`
          LEFT JOIN LATERAL (
                SELECT t.id, t.role, t.assigned_at, t.is_active
                  FROM team_members t
                 WHERE t.user_id = u.id
                   AND t.manager_id = $3
                 ORDER BY t.is_active DESC, t.assigned_at DESC
                 LIMIT 1
               ) tm ON TRUE
         WHERE u.id = ANY($1)
           AND ($2::text IS NULL OR u.id = $2)
           AND ($4::text IS NULL OR u.company_id = $4)
           AND ($5::boolean OR u.is_active)
         ORDER BY u.name ASC, u.id ASC
    `, q.ScopeIDs, nullableText(q.UserID), q.ManagerID, q.CompanyID, q.IncludeInactive)
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	members := make([]team.Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, translateTeamPgError(err)
		}
		members = append(members, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}

	return members, nil
}

func scanMember(row pgx.Row) (*team.Member, error) {
	var (
		owner            ownerScan
		departmentID     sql.NullString
		departmentName   sql.NullString
		profileID        sql.NullString
		employeeCode     sql.NullString
		designation      sql.NullString
		dateOfJoining    sql.NullTime
		baseSalary       decimal.NullDecimal
		isActive         bool
		createdAt        time.Time
		assignmentID     sql.NullString
		assignmentRole   sql.NullString
		assignedAt       sql.NullTime
		assignmentActive sql.NullBool
	)

	dest := append(owner.targets(),
		&departmentID,
		&departmentName,
		&profileID,
		&employeeCode,
		&designation,
		&dateOfJoining,
		&baseSalary,
		&isActive,
		&createdAt,
		&assignmentID,
		&assignmentRole,
		&assignedAt,
		&assignmentActive,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	member := &team.Member{
		Owner:             owner.owner(),
		DepartmentID:      nullableStringPtr(departmentID),
		DepartmentName:    nullableStringPtr(departmentName),
		EmployeeProfileID: nullableStringPtr(profileID),
		EmployeeCode:      employeeCode.String,
		Designation:       designation.String,
		DateOfJoining:     nullableTimePtr(dateOfJoining),
		BaseSalary:        baseSalary,
		IsActive:          isActive,
		CreatedAt:         createdAt.UTC(),
	}
	if assignmentID.Valid {
		member.Assignment = &team.Assignment{
			ID:         assignmentID.String,
			Role:       assignmentRole.String,
			AssignedAt: assignedAt.Time.UTC(),
			IsActive:   assignmentActive.Bool,
		}
	}
	return member, nil
}
