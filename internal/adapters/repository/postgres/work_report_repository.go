package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgdb "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
)

// WorkReportRepository は業務報告の参照実装です。
type WorkReportRepository struct {
	pool pgdb.Queryer
}

// NewWorkReportRepository は WorkReportRepository を生成します。
func NewWorkReportRepository(pool pgdb.Queryer) *WorkReportRepository {
	return &WorkReportRepository{pool: pool}
}

// ListWorkReports は条件に一致する業務報告をコメント付きで返します。
func (r *WorkReportRepository) ListWorkReports(ctx context.Context, q team.WorkReportQuery) ([]team.WorkReport, error) {
	var status any
	if q.Status != nil {
		status = string(*q.Status)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT wr.id,
               wr.employee_id,
               wr.date,
               wr.content,
               wr.status,
               wr.self_rating,
               wr.manager_rating,
               wr.created_at,
               `+ownerColumns+`
          FROM work_reports wr
          JOIN employee_profiles ep ON ep.id = wr.employee_id
          JOIN users u ON u.id = ep.user_id
          LEFT JOIN companies c ON c.id = u.company_id
         WHERE u.id = ANY($1)
           AND ($2::text IS NULL OR u.id = $2)
           AND ($3::timestamptz IS NULL OR wr.date >= $3)
           AND ($4::timestamptz IS NULL OR wr.date <= $4)
           AND ($5::text IS NULL OR wr.status = $5)
         ORDER BY wr.date DESC, wr.id ASC
         LIMIT $6
    `, q.ScopeIDs, nullableText(q.UserID), nullableTimeArg(q.StartDate), nullableTimeArg(q.EndDate), status, nullableLimit(q.Limit))
	if err != nil {
		return nil, translateTeamPgError(err)
	}

	reports := make([]team.WorkReport, 0)
	for rows.Next() {
		report, err := scanWorkReport(rows)
		if err != nil {
			rows.Close()
			return nil, translateTeamPgError(err)
		}
		reports = append(reports, report)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}

	if len(reports) == 0 {
		return reports, nil
	}

	comments, err := r.listComments(ctx, exec, reports)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		if c, ok := comments[reports[i].ID]; ok {
			reports[i].Comments = c
		}
	}

	return reports, nil
}

// listComments は業務報告ごとのコメントを新しい順に返します。
// 同じ接続で続けて発行するため、報告の rows を閉じてから呼び出してください。
func (r *WorkReportRepository) listComments(ctx context.Context, exec pgdb.Queryer, reports []team.WorkReport) (map[string][]team.ReportComment, error) {
	ids := make([]string, 0, len(reports))
	for _, report := range reports {
		ids = append(ids, report.ID)
	}

	rows, err := exec.Query(ctx, `
        SELECT cm.work_report_id,
               cm.id,
               cm.content,
               cm.created_at,
               au.name,
               au.email
          FROM work_report_comments cm
          JOIN users au ON au.id = cm.author_id
         WHERE cm.work_report_id = ANY($1)
         ORDER BY cm.created_at DESC, cm.id ASC
    `, ids)
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	out := make(map[string][]team.ReportComment, len(reports))
	for rows.Next() {
		var (
			reportID  string
			comment   team.ReportComment
			createdAt time.Time
		)
		if err := rows.Scan(&reportID, &comment.ID, &comment.Content, &createdAt, &comment.Author.Name, &comment.Author.Email); err != nil {
			return nil, translateTeamPgError(err)
		}
		comment.CreatedAt = createdAt.UTC()
		out[reportID] = append(out[reportID], comment)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}

	return out, nil
}

func scanWorkReport(row pgx.Row) (team.WorkReport, error) {
	var (
		report        team.WorkReport
		content       sql.NullString
		status        string
		selfRating    sql.NullInt64
		managerRating sql.NullInt64
		date          time.Time
		createdAt     time.Time
		owner         ownerScan
	)

	dest := []any{
		&report.ID,
		&report.EmployeeID,
		&date,
		&content,
		&status,
		&selfRating,
		&managerRating,
		&createdAt,
	}
	if err := row.Scan(append(dest, owner.targets()...)...); err != nil {
		return team.WorkReport{}, err
	}

	report.Owner = owner.owner()
	report.Date = date.UTC()
	report.CreatedAt = createdAt.UTC()
	report.Content = content.String
	report.Status = team.ReportStatus(status)
	report.SelfRating = nullableIntPtr(selfRating)
	report.ManagerRating = nullableIntPtr(managerRating)
	report.Comments = []team.ReportComment{}
	return report, nil
}
