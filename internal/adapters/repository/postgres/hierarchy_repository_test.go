package postgres

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

const managerExistsQuery = `SELECT EXISTS \(SELECT 1 FROM users WHERE id = \$1\)`

func TestHierarchyRepository_ResolveTeamMemberIDs(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewHierarchyRepository(mock)
	company := "co-1"

	mock.ExpectQuery(managerExistsQuery).
		WithArgs("M").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`WITH RECURSIVE downline AS`).
		WithArgs("M", &company).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("A").AddRow("C").AddRow("M"))

	ids, err := repo.ResolveTeamMemberIDs(context.Background(), "M", &company)
	if err != nil {
		t.Fatalf("ResolveTeamMemberIDs returned error: %v", err)
	}
	if !slices.Equal(ids, []string{"A", "C", "M"}) {
		t.Fatalf("unexpected ids: %v", ids)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHierarchyRepository_UnknownManager(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewHierarchyRepository(mock)

	mock.ExpectQuery(managerExistsQuery).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(managerExistsQuery).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	if _, err := repo.ResolveTeamMemberIDs(context.Background(), "ghost", nil); !errors.Is(err, team.ErrManagerNotFound) {
		t.Fatalf("expected ErrManagerNotFound, got %v", err)
	}
	if _, err := repo.IsDirectlyOrIndirectlyManaged(context.Background(), "ghost", "A"); !errors.Is(err, team.ErrManagerNotFound) {
		t.Fatalf("expected ErrManagerNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHierarchyRepository_IsDirectlyOrIndirectlyManaged(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewHierarchyRepository(mock)

	mock.ExpectQuery(managerExistsQuery).
		WithArgs("M").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`(?s)WITH RECURSIVE downline AS.*WHERE scope\.id = \$3`).
		WithArgs("M", pgxmock.AnyArg(), "B").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	managed, err := repo.IsDirectlyOrIndirectlyManaged(context.Background(), "M", "B")
	if err != nil {
		t.Fatalf("IsDirectlyOrIndirectlyManaged returned error: %v", err)
	}
	if !managed {
		t.Fatal("expected B to be managed by M")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHierarchyRepository_UpstreamFailure(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewHierarchyRepository(mock)

	mock.ExpectQuery(managerExistsQuery).
		WithArgs("M").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`WITH RECURSIVE downline AS`).
		WithArgs("M", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset by peer"))

	if _, err := repo.ResolveTeamMemberIDs(context.Background(), "M", nil); !errors.Is(err, team.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
