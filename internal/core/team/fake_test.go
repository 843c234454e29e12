package team

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

// fakeHierarchy は直属の部下とチーム割り当てを保持するインメモリ実装です。
type fakeHierarchy struct {
	managers    map[string]bool
	reports     map[string][]string
	assignments map[string][]fakeAssignment
	companies   map[string]string
	err         error
}

type fakeAssignment struct {
	userID    string
	companyID string
}

func newFakeHierarchy() *fakeHierarchy {
	return &fakeHierarchy{
		managers:    make(map[string]bool),
		reports:     make(map[string][]string),
		assignments: make(map[string][]fakeAssignment),
		companies:   make(map[string]string),
	}
}

func (h *fakeHierarchy) addUser(id, companyID string) {
	h.managers[id] = true
	if companyID != "" {
		h.companies[id] = companyID
	}
}

func (h *fakeHierarchy) addReport(managerID, userID string) {
	h.reports[managerID] = append(h.reports[managerID], userID)
}

func (h *fakeHierarchy) assign(managerID, userID, companyID string) {
	h.assignments[managerID] = append(h.assignments[managerID], fakeAssignment{userID: userID, companyID: companyID})
}

func (h *fakeHierarchy) downline(managerID string) map[string]bool {
	seen := map[string]bool{}
	queue := []string{managerID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, sub := range h.reports[current] {
			if seen[sub] || sub == managerID {
				continue
			}
			seen[sub] = true
			queue = append(queue, sub)
		}
	}
	return seen
}

func (h *fakeHierarchy) members(managerID string, companyID *string) map[string]bool {
	out := map[string]bool{managerID: true}
	for id := range h.downline(managerID) {
		if companyID == nil || h.companies[id] == *companyID {
			out[id] = true
		}
	}
	for _, a := range h.assignments[managerID] {
		if companyID == nil || a.companyID == *companyID {
			out[a.userID] = true
		}
	}
	return out
}

func (h *fakeHierarchy) ResolveTeamMemberIDs(_ context.Context, managerID string, companyID *string) ([]string, error) {
	if h.err != nil {
		return nil, h.err
	}
	if !h.managers[managerID] {
		return nil, ErrManagerNotFound
	}
	ids := make([]string, 0)
	for id := range h.members(managerID, companyID) {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (h *fakeHierarchy) IsDirectlyOrIndirectlyManaged(_ context.Context, managerID, targetUserID string) (bool, error) {
	if h.err != nil {
		return false, h.err
	}
	if !h.managers[managerID] {
		return false, ErrManagerNotFound
	}
	return h.members(managerID, nil)[targetUserID], nil
}

// fakeStore は読み取り契約だけを満たすインメモリストアです。
type fakeStore struct {
	mu          sync.Mutex
	members     map[string]Member
	attendance  []AttendanceEntry
	leaves      []LeaveRequest
	reports     []WorkReport
	performance map[string]PerformanceSummary
	salaries    map[string]SalarySummary
	errs        map[string]error
	queries     []IdentityFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:     make(map[string]Member),
		performance: make(map[string]PerformanceSummary),
		salaries:    make(map[string]SalarySummary),
		errs:        make(map[string]error),
	}
}

func (s *fakeStore) record(method string, f IdentityFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, f)
	return s.errs[method]
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func matches(f IdentityFilter, userID string) bool {
	if f.UserID != "" && f.UserID != userID {
		return false
	}
	return slices.Contains(f.ScopeIDs, userID)
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func (s *fakeStore) ListAttendance(_ context.Context, q AttendanceQuery) ([]AttendanceEntry, error) {
	if err := s.record("attendance", q.IdentityFilter); err != nil {
		return nil, err
	}
	var out []AttendanceEntry
	for _, e := range s.attendance {
		if !matches(q.IdentityFilter, e.Owner.UserID) {
			continue
		}
		if q.Window != nil && !q.Window.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, compareAttendance)
	return limit(out, q.Limit), nil
}

func (s *fakeStore) ListLeaveRequests(_ context.Context, q LeaveQuery) ([]LeaveRequest, error) {
	if err := s.record("leaves", q.IdentityFilter); err != nil {
		return nil, err
	}
	var out []LeaveRequest
	for _, l := range s.leaves {
		if !matches(q.IdentityFilter, l.Owner.UserID) {
			continue
		}
		if q.Status != nil && l.Status != *q.Status {
			continue
		}
		out = append(out, l)
	}
	slices.SortStableFunc(out, compareLeave)
	return limit(out, q.Limit), nil
}

func (s *fakeStore) ListWorkReports(_ context.Context, q WorkReportQuery) ([]WorkReport, error) {
	if err := s.record("reports", q.IdentityFilter); err != nil {
		return nil, err
	}
	var out []WorkReport
	for _, r := range s.reports {
		if !matches(q.IdentityFilter, r.Owner.UserID) || !reportMatches(r, q.StartDate, q.EndDate, q.Status) {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, compareWorkReport)
	return limit(out, q.Limit), nil
}

func (s *fakeStore) ListPerformance(_ context.Context, q PerformanceQuery) ([]PerformanceSummary, error) {
	if err := s.record("performance", q.IdentityFilter); err != nil {
		return nil, err
	}
	var out []PerformanceSummary
	for _, id := range q.ScopeIDs {
		if !matches(q.IdentityFilter, id) {
			continue
		}
		member, ok := s.members[id]
		if !ok {
			continue
		}
		summary := s.performance[id]
		summary.Owner = member.Owner
		var kpis []KPI
		for _, k := range summary.KPIs {
			if q.Period == nil || k.Period == *q.Period {
				kpis = append(kpis, k)
			}
		}
		summary.KPIs = limit(kpis, q.KPILimit)
		summary.Reviews = limit(slices.Clone(summary.Reviews), q.ReviewLimit)
		summary.Insights = limit(slices.Clone(summary.Insights), q.InsightLimit)
		summary.ReportHistory = limit(slices.Clone(summary.ReportHistory), q.ReportHistoryLimit)
		out = append(out, summary)
	}
	return out, nil
}

func (s *fakeStore) ListSalaries(_ context.Context, q SalaryQuery) ([]SalarySummary, error) {
	if err := s.record("salaries", q.IdentityFilter); err != nil {
		return nil, err
	}
	var out []SalarySummary
	for _, id := range q.ScopeIDs {
		if !matches(q.IdentityFilter, id) {
			continue
		}
		member, ok := s.members[id]
		if !ok {
			continue
		}
		summary := s.salaries[id]
		summary.Owner = member.Owner
		summary.IncrementHistory = limit(slices.Clone(summary.IncrementHistory), q.IncrementLimit)
		out = append(out, summary)
	}
	return out, nil
}

func (s *fakeStore) FindMember(_ context.Context, userID string) (*Member, error) {
	if err := s.record("member", IdentityFilter{UserID: userID}); err != nil {
		return nil, err
	}
	member, ok := s.members[userID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return &member, nil
}

func (s *fakeStore) ListMembers(_ context.Context, q MemberQuery) ([]Member, error) {
	if err := s.record("members", q.IdentityFilter); err != nil {
		return nil, err
	}
	var out []Member
	for _, id := range q.ScopeIDs {
		member, ok := s.members[id]
		if !ok || !matches(q.IdentityFilter, id) {
			continue
		}
		out = append(out, member)
	}
	return out, nil
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func owner(id, name, companyID, companyName string) Owner {
	o := Owner{UserID: id, Name: name, Email: id + "@example.com"}
	if companyID != "" {
		o.CompanyID = strPtr(companyID)
		o.CompanyName = strPtr(companyName)
	}
	return o
}

// fixture はマネージャー M が {A, B} を管理し、C は無関係な社員である組織を構築します。
// A は M の直属、B は A の部下 (M の間接部下)、Z は部下を持たないマネージャーです。
type fixture struct {
	hierarchy *fakeHierarchy
	store     *fakeStore
	svc       *Service
	now       time.Time
}

func newFixture() *fixture {
	h := newFakeHierarchy()
	h.addUser("M", "co-1")
	h.addUser("A", "co-1")
	h.addUser("B", "co-2")
	h.addUser("C", "co-1")
	h.addUser("N", "")
	h.addUser("Z", "co-1")
	h.addReport("M", "A")
	h.addReport("A", "B")
	h.addReport("N", "C")

	store := newFakeStore()
	profileID := func(id string) *string { return strPtr("emp-" + id) }
	store.members["M"] = Member{Owner: owner("M", "Manager", "co-1", "Acme"), EmployeeProfileID: profileID("M"), IsActive: true}
	store.members["A"] = Member{Owner: owner("A", "Alice", "co-1", "Acme"), DepartmentName: strPtr("Engineering"), EmployeeProfileID: profileID("A"), IsActive: true}
	store.members["B"] = Member{Owner: owner("B", "Bob", "co-2", "Globex"), EmployeeProfileID: profileID("B"), IsActive: true}
	store.members["C"] = Member{Owner: owner("C", "Carol", "co-1", "Acme"), EmployeeProfileID: profileID("C"), IsActive: true}
	store.members["N"] = Member{Owner: owner("N", "Nobody", "", ""), IsActive: true}
	store.members["Z"] = Member{Owner: owner("Z", "Zed", "co-1", "Acme"), EmployeeProfileID: profileID("Z"), IsActive: true}

	now := time.Date(2025, 1, 20, 6, 0, 0, 0, time.UTC)
	svc := NewService(h, store, &stubClock{now: now}, nil, nil)

	return &fixture{hierarchy: h, store: store, svc: svc, now: now}
}

var allUsers = []string{"M", "A", "B", "C", "N", "Z", "ghost"}
