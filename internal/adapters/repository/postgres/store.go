package postgres

import (
	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	pgdb "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
)

// Store はドメインごとのリポジトリをまとめ、team.Store を満たします。
type Store struct {
	*AttendanceRepository
	*LeaveRepository
	*WorkReportRepository
	*PerformanceRepository
	*SalaryRepository
	*DirectoryRepository
}

var _ team.Store = (*Store)(nil)
var _ team.Hierarchy = (*HierarchyRepository)(nil)

// NewStore は同じプールを共有する Store を生成します。
func NewStore(pool pgdb.Queryer) *Store {
	return &Store{
		AttendanceRepository:  NewAttendanceRepository(pool),
		LeaveRepository:       NewLeaveRepository(pool),
		WorkReportRepository:  NewWorkReportRepository(pool),
		PerformanceRepository: NewPerformanceRepository(pool),
		SalaryRepository:      NewSalaryRepository(pool),
		DirectoryRepository:   NewDirectoryRepository(pool),
	}
}
