package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func profileOwnerRows() *pgxmock.Rows {
	return pgxmock.NewRows(append(ownerColumnNames, "profile_id")).
		AddRow("A", "Alice", "a@example.com", "co-1", "Acme", "emp-A").
		AddRow("N", "Nobody", "n@example.com", nil, nil, nil)
}

func TestPerformanceRepository_ListPerformance(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPerformanceRepository(mock)
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	period := "2025-Q1"

	mock.ExpectQuery(`(?s)FROM users u.*LEFT JOIN employee_profiles ep ON ep.user_id = u.id`).
		WithArgs([]string{"A", "N"}, nil).
		WillReturnRows(profileOwnerRows())
	mock.ExpectQuery(`FROM kpis k`).
		WithArgs([]string{"emp-A"}, &period, 20).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "id", "title", "target", "current", "period", "category", "created_at"}).
			AddRow("emp-A", "kpi-1", "Revenue", 100.0, 80.0, "2025-Q1", nil, day))
	mock.ExpectQuery(`FROM performance_reviews p`).
		WithArgs([]string{"emp-A"}, 10).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "id", "period", "rating", "feedback", "created_at", "reviewer_name", "reviewer_email"}).
			AddRow("emp-A", "rev-1", "2024-H2", 4.5, "solid", day, "Manager", "m@example.com"))
	mock.ExpectQuery(`FROM performance_insights i`).
		WithArgs([]string{"emp-A"}, 10).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "id", "content", "type", "date"}))
	mock.ExpectQuery(`FROM work_reports wr`).
		WithArgs([]string{"emp-A"}, 30).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "date", "self_rating", "manager_rating"}).
			AddRow("emp-A", day, int64(3), int64(0)).
			AddRow("emp-A", day.AddDate(0, 0, 1), nil, int64(5)))

	summaries, err := repo.ListPerformance(context.Background(), team.PerformanceQuery{
		IdentityFilter:     team.IdentityFilter{ScopeIDs: []string{"A", "N"}},
		Period:             &period,
		KPILimit:           20,
		ReviewLimit:        10,
		InsightLimit:       10,
		ReportHistoryLimit: 30,
	})
	if err != nil {
		t.Fatalf("ListPerformance returned error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	alice := summaries[0]
	if len(alice.KPIs) != 1 || alice.KPIs[0].Target != 100 {
		t.Fatalf("unexpected KPIs: %+v", alice.KPIs)
	}
	if len(alice.Reviews) != 1 || alice.Reviews[0].Reviewer == nil {
		t.Fatalf("unexpected reviews: %+v", alice.Reviews)
	}
	if alice.Insights == nil || len(alice.Insights) != 0 {
		t.Fatalf("expected empty insights, got %#v", alice.Insights)
	}
	if len(alice.ReportHistory) != 2 || alice.ReportHistory[0].Rating != 3 || alice.ReportHistory[1].Rating != 5 {
		t.Fatalf("unexpected report history: %+v", alice.ReportHistory)
	}
	if alice.ReportHistory[0].Type != reportHistoryType {
		t.Fatalf("unexpected history type %q", alice.ReportHistory[0].Type)
	}

	nobody := summaries[1]
	if nobody.KPIs == nil || nobody.Reviews == nil || nobody.ReportHistory == nil {
		t.Fatal("user without employee profile must get empty slices")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPerformanceRepository_SkipsDetailsWithoutLimit(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPerformanceRepository(mock)

	mock.ExpectQuery(`(?s)FROM users u.*LEFT JOIN employee_profiles ep ON ep.user_id = u.id`).
		WithArgs([]string{"A"}, "A").
		WillReturnRows(pgxmock.NewRows(append(ownerColumnNames, "profile_id")).
			AddRow("A", "Alice", "a@example.com", "co-1", "Acme", "emp-A"))
	mock.ExpectQuery(`FROM performance_reviews p`).
		WithArgs([]string{"emp-A"}, 3).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "id", "period", "rating", "feedback", "created_at", "reviewer_name", "reviewer_email"}))

	if _, err := repo.ListPerformance(context.Background(), team.PerformanceQuery{
		IdentityFilter: team.IdentityFilter{ScopeIDs: []string{"A"}, UserID: "A"},
		ReviewLimit:    3,
	}); err != nil {
		t.Fatalf("ListPerformance returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
