package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgdb "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
)

// AttendanceRepository は勤怠レコードの参照実装です。
type AttendanceRepository struct {
	pool pgdb.Queryer
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(pool pgdb.Queryer) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// ListAttendance は ID 条件と期間に一致する勤怠を新しい順に返します。
func (r *AttendanceRepository) ListAttendance(ctx context.Context, q team.AttendanceQuery) ([]team.AttendanceEntry, error) {
	var start, end any
	if q.Window != nil {
		start, end = q.Window.Start.UTC(), q.Window.End.UTC()
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT a.id,
               a.employee_id,
               a.date,
               a.check_in,
               a.check_out,
               a.status,
               a.work_from,
               s.id,
               s.name,
               s.start_time,
               s.end_time,
               `+ownerColumns+`
          FROM attendances a
          JOIN employee_profiles ep ON ep.id = a.employee_id
          JOIN users u ON u.id = ep.user_id
          LEFT JOIN companies c ON c.id = u.company_id
          LEFT JOIN shifts s ON s.id = a.shift_id
         WHERE u.id = ANY($1)
           AND ($2::text IS NULL OR u.id = $2)
           AND ($3::timestamptz IS NULL OR a.date >= $3)
           AND ($4::timestamptz IS NULL OR a.date <= $4)
         ORDER BY a.date DESC, u.name ASC, a.id ASC
         LIMIT $5
    `, q.ScopeIDs, nullableText(q.UserID), start, end, nullableLimit(q.Limit))
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	entries := make([]team.AttendanceEntry, 0)
	for rows.Next() {
		entry, err := scanAttendance(rows)
		if err != nil {
			return nil, translateTeamPgError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}

	return entries, nil
}

func scanAttendance(row pgx.Row) (team.AttendanceEntry, error) {
	var (
		entry      team.AttendanceEntry
		checkIn    sql.NullTime
		checkOut   sql.NullTime
		status     sql.NullString
		workFrom   sql.NullString
		shiftID    sql.NullString
		shiftName  sql.NullString
		shiftStart sql.NullString
		shiftEnd   sql.NullString
		date       time.Time
		owner      ownerScan
	)

	dest := []any{
		&entry.ID,
		&entry.EmployeeID,
		&date,
		&checkIn,
		&checkOut,
		&status,
		&workFrom,
		&shiftID,
		&shiftName,
		&shiftStart,
		&shiftEnd,
	}
	if err := row.Scan(append(dest, owner.targets()...)...); err != nil {
		return team.AttendanceEntry{}, err
	}

	entry.Owner = owner.owner()
	entry.Date = date.UTC()
	entry.CheckIn = nullableTimePtr(checkIn)
	entry.CheckOut = nullableTimePtr(checkOut)
	entry.Status = status.String
	entry.WorkFrom = workFrom.String
	if shiftID.Valid {
		entry.Shift = &team.Shift{
			Name:      shiftName.String,
			StartTime: shiftStart.String,
			EndTime:   shiftEnd.String,
		}
	}
	return entry, nil
}
