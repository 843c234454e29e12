package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgdb "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

// SalaryRepository は給与と昇給履歴の参照実装です。
type SalaryRepository struct {
	pool pgdb.Queryer
}

// NewSalaryRepository は SalaryRepository を生成します。
func NewSalaryRepository(pool pgdb.Queryer) *SalaryRepository {
	return &SalaryRepository{pool: pool}
}

type salaryOwner struct {
	owner        team.Owner
	profileID    string
	compensation *team.Compensation
}

// ListSalaries は社員ごとの給与と昇給履歴を返します。
func (r *SalaryRepository) ListSalaries(ctx context.Context, q team.SalaryQuery) ([]team.SalarySummary, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	owners, err := r.listCompensation(ctx, exec, q.IdentityFilter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(owners))
	for _, o := range owners {
		if o.profileID != "" {
			ids = append(ids, o.profileID)
		}
	}

	var increments map[string][]team.IncrementEvent
	if len(ids) > 0 && q.IncrementLimit > 0 {
		if increments, err = r.listIncrements(ctx, exec, ids, q.IncrementLimit); err != nil {
			return nil, err
		}
	}

	summaries := make([]team.SalarySummary, 0, len(owners))
	for _, o := range owners {
		summaries = append(summaries, team.SalarySummary{
			Owner:            o.owner,
			Compensation:     o.compensation,
			IncrementHistory: orEmpty(increments[o.profileID]),
		})
	}
	return summaries, nil
}

func (r *SalaryRepository) listCompensation(ctx context.Context, exec pgdb.Queryer, f team.IdentityFilter) ([]salaryOwner, error) {
	rows, err := exec.Query(ctx, `
        SELECT `+ownerColumns+`,
               ep.id,
               ep.employee_code,
               ep.designation,
               ep.base_salary,
               ep.fixed_salary,
               ep.salary_fixed,
               ep.variable_salary,
               ep.salary_variable,
               ep.last_increment_date,
               ep.last_increment_percentage
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

	owners := make([]salaryOwner, 0)
	for rows.Next() {
		var (
			owner            ownerScan
			profileID        sql.NullString
			employeeCode     sql.NullString
			designation      sql.NullString
			baseSalary       decimal.NullDecimal
			fixedSalary      decimal.NullDecimal
			legacyFixed      decimal.NullDecimal
			variableSalary   decimal.NullDecimal
			legacyVariable   decimal.NullDecimal
			lastIncrement    sql.NullTime
			lastIncrementPct decimal.NullDecimal
		)
		dest := append(owner.targets(),
			&profileID,
			&employeeCode,
			&designation,
			&baseSalary,
			&fixedSalary,
			&legacyFixed,
			&variableSalary,
			&legacyVariable,
			&lastIncrement,
			&lastIncrementPct,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, translateTeamPgError(err)
		}

		o := salaryOwner{owner: owner.owner()}
		if profileID.Valid {
			o.profileID = profileID.String
			o.compensation = &team.Compensation{
				EmployeeCode:            employeeCode.String,
				Designation:             designation.String,
				BaseSalary:              baseSalary.Decimal,
				FixedSalary:             preferAmount(fixedSalary, legacyFixed),
				VariableSalary:          preferAmount(variableSalary, legacyVariable),
				LastIncrementDate:       nullableTimePtr(lastIncrement),
				LastIncrementPercentage: lastIncrementPct,
			}
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}

	return owners, nil
}

func (r *SalaryRepository) listIncrements(ctx context.Context, exec pgdb.Queryer, ids []string, limit int) (map[string][]team.IncrementEvent, error) {
	rows, err := exec.Query(ctx, `
        SELECT h.employee_id, h.id, h.effective_date, h.old_salary, h.new_salary, h.old_fixed, h.new_fixed, h.status
          FROM (
                SELECT h.*,
                       ROW_NUMBER() OVER (PARTITION BY h.employee_id ORDER BY h.effective_date DESC, h.id ASC) AS rn
                  FROM salary_increments h
                 WHERE h.employee_id = ANY($1)
               ) h
         WHERE h.rn <= $2
         ORDER BY h.employee_id, h.effective_date DESC, h.id ASC
    `, ids, limit)
	if err != nil {
		return nil, translateTeamPgError(err)
	}
	defer rows.Close()

	out := make(map[string][]team.IncrementEvent)
	for rows.Next() {
		var (
			employeeID    string
			event         team.IncrementEvent
			effectiveDate time.Time
			oldSalary     decimal.NullDecimal
			newSalary     decimal.NullDecimal
		)
		if err := rows.Scan(&employeeID, &event.ID, &effectiveDate, &oldSalary, &newSalary, &event.OldFixed, &event.NewFixed, &event.Status); err != nil {
			return nil, translateTeamPgError(err)
		}
		event.EffectiveDate = effectiveDate.UTC()
		event.OldSalary = oldSalary.Decimal
		event.NewSalary = newSalary.Decimal
		out[employeeID] = append(out[employeeID], event)
	}
	if err := rows.Err(); err != nil {
		return nil, translateTeamPgError(err)
	}
	return out, nil
}

// preferAmount は現行列が 0 または NULL の場合に旧列の値を採用します。
func preferAmount(current, legacy decimal.NullDecimal) decimal.NullDecimal {
	if current.Valid && !current.Decimal.IsZero() {
		return current
	}
	if legacy.Valid {
		return legacy
	}
	return current
}
