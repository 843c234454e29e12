package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var memberColumnNames = append(append([]string{}, ownerColumnNames...),
	"department_id", "department_name", "profile_id", "employee_code", "designation",
	"date_of_joining", "base_salary", "is_active", "created_at",
	"assignment_id", "assignment_role", "assigned_at", "assignment_active")

func TestDirectoryRepository_FindMember(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewDirectoryRepository(mock)
	created := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)FROM users u.*WHERE u.id = \$1`).
		WithArgs("A").
		WillReturnRows(pgxmock.NewRows(memberColumnNames).
			AddRow("A", "Alice", "a@example.com", "co-1", "Acme",
				"dep-1", "Engineering", "emp-A", "E-001", "Engineer",
				created, "50000", true, created,
				nil, nil, nil, nil))

	member, err := repo.FindMember(context.Background(), "A")
	if err != nil {
		t.Fatalf("FindMember returned error: %v", err)
	}
	if member.DepartmentName == nil || *member.DepartmentName != "Engineering" {
		t.Fatalf("unexpected department %v", member.DepartmentName)
	}
	if member.EmployeeProfileID == nil || *member.EmployeeProfileID != "emp-A" {
		t.Fatalf("unexpected profile id %v", member.EmployeeProfileID)
	}
	if member.Assignment != nil {
		t.Fatalf("expected no assignment, got %+v", member.Assignment)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDirectoryRepository_FindMember_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewDirectoryRepository(mock)
	mock.ExpectQuery(`(?s)FROM users u.*WHERE u.id = \$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(memberColumnNames))

	if _, err := repo.FindMember(context.Background(), "ghost"); !errors.Is(err, team.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDirectoryRepository_ListMembers(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewDirectoryRepository(mock)
	created := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	assigned := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	company := "co-1"

	mock.ExpectQuery(`(?s)LEFT JOIN LATERAL.*FROM team_members t`).
		WithArgs([]string{"A", "C"}, nil, "M", &company, false).
		WillReturnRows(pgxmock.NewRows(memberColumnNames).
			AddRow("A", "Alice", "a@example.com", "co-1", "Acme",
				nil, nil, "emp-A", "E-001", "Engineer",
				nil, nil, true, created,
				nil, nil, nil, nil).
			AddRow("C", "Carol", "c@example.com", "co-1", "Acme",
				nil, nil, nil, nil, nil,
				nil, nil, true, created,
				"tm-1", "MEMBER", assigned, true))

	members, err := repo.ListMembers(context.Background(), team.MemberQuery{
		IdentityFilter: team.IdentityFilter{ScopeIDs: []string{"A", "C"}},
		ManagerID:      "M",
		CompanyID:      &company,
	})
	if err != nil {
		t.Fatalf("ListMembers returned error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Assignment != nil || members[0].Designation != "Engineer" {
		t.Fatalf("unexpected first member: %+v", members[0])
	}
	carol := members[1]
	if carol.Assignment == nil || carol.Assignment.ID != "tm-1" || !carol.Assignment.AssignedAt.Equal(assigned) {
		t.Fatalf("expected assignment for Carol, got %+v", carol.Assignment)
	}
	if carol.EmployeeProfileID != nil {
		t.Fatalf("expected no employee profile, got %v", *carol.EmployeeProfileID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
