package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgdb "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
)

// reportHistoryType はグラフ表示用の評価推移に付与する種別です。
const reportHistoryType = "Daily Report"

// PerformanceRepository は KPI・評価・所見の参照実装です。
type PerformanceRepository struct {
	pool pgdb.Queryer
}

// NewPerformanceRepository は PerformanceRepository を生成します。
func NewPerformanceRepository(pool pgdb.Queryer) *PerformanceRepository {
	return &PerformanceRepository{pool: pool}
}

type profileOwner struct {
	owner     team.Owner
	profileID string
}

// listProfileOwners は ID 条件に一致するユーザーと社員プロファイル ID を返します。
func listProfileOwners(ctx context.Context, exec pgdb.Queryer, f team.IdentityFilter) ([]profileOwner, error) {
	rows, err := exec.Query(ctx, `
        SELECT `+ownerColumns+`,
               ep.id
          FROM users u
          LEFT JOIN companies c ON c.id = u.company_id
          LEFT JOIN employee_profiles ep ON ep.user_id = u.id
         WHERE u.id = ANY($1)
           AND ($2::text IS NULL OR u.id = $2)
         ORDER BY u.name ASC, u.id ASC
    `, f.ScopeIDs, nullableText(f.UserID))
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	owners := make([]profileOwner, 0)
	for rows.Next() {
		var (
			owner     ownerScan
			profileID sql.NullString
		)
		if err := rows.Scan(append(owner.targets(), &profileID)...); err != nil {
			return nil, translateTeamPgError(err)
		}
		owners = append(owners, profileOwner{owner: owner.owner(), profileID: profileID.String})
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}

	return owners, nil
}

func profileIDs(owners []profileOwner) []string {
	ids := make([]string, 0, len(owners))
	for _, o := range owners {
		if o.profileID != "" {
			ids = append(ids, o.profileID)
		}
	}
	return ids
}

// ListPerformance は社員ごとの評価データを返します。上限が 0 以下の明細は取得しません。
func (r *PerformanceRepository) ListPerformance(ctx context.Context, q team.PerformanceQuery) ([]team.PerformanceSummary, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	owners, err := listProfileOwners(ctx, exec, q.IdentityFilter)
	if err != nil {
		return nil, err
	}

	ids := profileIDs(owners)
	var (
		kpis     map[string][]team.KPI
		reviews  map[string][]team.PerformanceReview
		insights map[string][]team.PerformanceInsight
		history  map[string][]team.ReportRating
	)
	if len(ids) > 0 {
		if q.KPILimit > 0 {
			if kpis, err = r.listKPIs(ctx, exec, ids, q.Period, q.KPILimit); err != nil {
				return nil, err
			}
		}
		if q.ReviewLimit > 0 {
			if reviews, err = r.listReviews(ctx, exec, ids, q.ReviewLimit); err != nil {
				return nil, err
			}
		}
		if q.InsightLimit > 0 {
			if insights, err = r.listInsights(ctx, exec, ids, q.InsightLimit); err != nil {
				return nil, err
			}
		}
		if q.ReportHistoryLimit > 0 {
			if history, err = r.listReportHistory(ctx, exec, ids, q.ReportHistoryLimit); err != nil {
				return nil, err
			}
		}
	}

	summaries := make([]team.PerformanceSummary, 0, len(owners))
	for _, o := range owners {
		summaries = append(summaries, team.PerformanceSummary{
			Owner:         o.owner,
			KPIs:          orEmpty(kpis[o.profileID]),
			Reviews:       orEmpty(reviews[o.profileID]),
			Insights:      orEmpty(insights[o.profileID]),
			ReportHistory: orEmpty(history[o.profileID]),
		})
	}
	return summaries, nil
}

func (r *PerformanceRepository) listKPIs(ctx context.Context, exec pgdb.Queryer, ids []string, period *string, limit int) (map[string][]team.KPI, error) {
	rows, err := exec.Query(ctx, `
        SELECT k.employee_id, k.id, k.title, k.target, k.current, k.period, k.category, k.created_at
          FROM (
                SELECT k.*,
                       ROW_NUMBER() OVER (PARTITION BY k.employee_id ORDER BY k.created_at DESC, k.id ASC) AS rn
                  FROM kpis k
                 WHERE k.employee_id = ANY($1)
                   AND ($2::text IS NULL OR k.period = $2)
               ) k
         WHERE k.rn <= $3
         ORDER BY k.employee_id, k.created_at DESC, k.id ASC
    `, ids, period, limit)
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	out := make(map[string][]team.KPI)
	for rows.Next() {
		var (
			employeeID string
			kpi        team.KPI
			category   sql.NullString
			createdAt  time.Time
		)
		if err := rows.Scan(&employeeID, &kpi.ID, &kpi.Title, &kpi.Target, &kpi.Current, &kpi.Period, &category, &createdAt); err != nil {
			return nil, translateTeamPgError(err)
		}
		kpi.Category = category.String
		kpi.CreatedAt = createdAt.UTC()
		out[employeeID] = append(out[employeeID], kpi)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}
	return out, nil
}

func (r *PerformanceRepository) listReviews(ctx context.Context, exec pgdb.Queryer, ids []string, limit int) (map[string][]team.PerformanceReview, error) {
	rows, err := exec.Query(ctx, `
        SELECT p.employee_id, p.id, p.period, p.rating, p.feedback, p.created_at, rv.name, rv.email
          FROM (
                SELECT p.*,
                       ROW_NUMBER() OVER (PARTITION BY p.employee_id ORDER BY p.created_at DESC, p.id ASC) AS rn
                  FROM performance_reviews p
                 WHERE p.employee_id = ANY($1)
               ) p
          LEFT JOIN users rv ON rv.id = p.reviewer_id
         WHERE p.rn <= $2
         ORDER BY p.employee_id, p.created_at DESC, p.id ASC
    `, ids, limit)
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	out := make(map[string][]team.PerformanceReview)
	for rows.Next() {
		var (
			employeeID    string
			review        team.PerformanceReview
			feedback      sql.NullString
			createdAt     time.Time
			reviewerName  sql.NullString
			reviewerEmail sql.NullString
		)
		if err := rows.Scan(&employeeID, &review.ID, &review.Period, &review.Rating, &feedback, &createdAt, &reviewerName, &reviewerEmail); err != nil {
			return nil, translateTeamPgError(err)
		}
		review.Feedback = feedback.String
		review.CreatedAt = createdAt.UTC()
		if reviewerName.Valid {
			review.Reviewer = &team.Person{Name: reviewerName.String, Email: reviewerEmail.String}
		}
		out[employeeID] = append(out[employeeID], review)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}
	return out, nil
}

func (r *PerformanceRepository) listInsights(ctx context.Context, exec pgdb.Queryer, ids []string, limit int) (map[string][]team.PerformanceInsight, error) {
	rows, err := exec.Query(ctx, `
        SELECT i.employee_id, i.id, i.content, i.type, i.date
          FROM (
                SELECT i.*,
                       ROW_NUMBER() OVER (PARTITION BY i.employee_id ORDER BY i.date DESC, i.id ASC) AS rn
                  FROM performance_insights i
                 WHERE i.employee_id = ANY($1)
               ) i
         WHERE i.rn <= $2
         ORDER BY i.employee_id, i.date DESC, i.id ASC
    `, ids, limit)
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	out := make(map[string][]team.PerformanceInsight)
	for rows.Next() {
		var (
			employeeID string
			insight    team.PerformanceInsight
			date       time.Time
		)
		if err := rows.Scan(&employeeID, &insight.ID, &insight.Content, &insight.Type, &date); err != nil {
			return nil, translateTeamPgError(err)
		}
		insight.Date = date.UTC()
		out[employeeID] = append(out[employeeID], insight)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}
	return out, nil
}

// listReportHistory は承認済み業務報告の評価を古い順に返します。
func (r *PerformanceRepository) listReportHistory(ctx context.Context, exec pgdb.Queryer, ids []string, limit int) (map[string][]team.ReportRating, error) {
	rows, err := exec.Query(ctx, `
        SELECT wr.employee_id, wr.date, wr.self_rating, wr.manager_rating
          FROM (
                SELECT wr.*,
                       ROW_NUMBER() OVER (PARTITION BY wr.employee_id ORDER BY wr.date ASC, wr.id ASC) AS rn
                  FROM work_reports wr
                 WHERE wr.employee_id = ANY($1)
                   AND wr.status = 'APPROVED'
               ) wr
         WHERE wr.rn <= $2
         ORDER BY wr.employee_id, wr.date ASC, wr.id ASC
    `, ids, limit)
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	out := make(map[string][]team.ReportRating)
	for rows.Next() {
		var (
			employeeID    string
			date          time.Time
			selfRating    sql.NullInt64
			managerRating sql.NullInt64
		)
		if err := rows.Scan(&employeeID, &date, &selfRating, &managerRating); err != nil {
			return nil, translateTeamPgError(err)
		}
		rating := team.ReportRatingOf(team.WorkReport{
			SelfRating:    nullableIntPtr(selfRating),
			ManagerRating: nullableIntPtr(managerRating),
		})
		out[employeeID] = append(out[employeeID], team.ReportRating{
			Date:   date.UTC(),
			Rating: rating,
			Type:   reportHistoryType,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}
	return out, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
