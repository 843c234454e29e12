package handler

import (
	"time"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type record = map[string]any

func toStruct(m record) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

// scopedItems は各レコードの最上位に companyId / companyName を展開したリストを返します。
func scopedItems[T any](items []team.Scoped[T], convert func(T) record) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		m := convert(item.Record)
		m["companyId"] = item.CompanyID
		m["companyName"] = item.CompanyName
		out = append(out, m)
	}
	return out
}

func listOf[T any](items []T, convert func(T) record) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optionalTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timestamp(*t)
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func ownerRecord(o team.Owner) record {
	return record{
		"id":    o.UserID,
		"name":  o.Name,
		"email": o.Email,
	}
}

func personRecord(p *team.Person) any {
	if p == nil {
		return nil
	}
	return record{"name": p.Name, "email": p.Email}
}

func attendanceRecord(a team.AttendanceEntry) record {
	var shift any
	if a.Shift != nil {
		shift = record{
			"name":      a.Shift.Name,
			"startTime": a.Shift.StartTime,
			"endTime":   a.Shift.EndTime,
		}
	}
	return record{
		"id":         a.ID,
		"employeeId": a.EmployeeID,
		"user":       ownerRecord(a.Owner),
		"date":       timestamp(a.Date),
		"checkIn":    optionalTimestamp(a.CheckIn),
		"checkOut":   optionalTimestamp(a.CheckOut),
		"status":     a.Status,
		"workFrom":   a.WorkFrom,
		"shift":      shift,
	}
}

func leaveRecord(l team.LeaveRequest) record {
	return record{
		"id":         l.ID,
		"employeeId": l.EmployeeID,
		"user":       ownerRecord(l.Owner),
		"type":       l.Type,
		"startDate":  timestamp(l.StartDate),
		"endDate":    timestamp(l.EndDate),
		"reason":     l.Reason,
		"status":     string(l.Status),
		"remarks":    l.Remarks,
		"approvedBy": personRecord(l.ApprovedBy),
		"createdAt":  timestamp(l.CreatedAt),
	}
}

func commentRecord(c team.ReportComment) record {
	return record{
		"id":        c.ID,
		"content":   c.Content,
		"author":    personRecord(&c.Author),
		"createdAt": timestamp(c.CreatedAt),
	}
}

func workReportRecord(r team.WorkReport) record {
	return record{
		"id":            r.ID,
		"employeeId":    r.EmployeeID,
		"user":          ownerRecord(r.Owner),
		"date":          timestamp(r.Date),
		"content":       r.Content,
		"status":        string(r.Status),
		"selfRating":    optionalInt(r.SelfRating),
		"managerRating": optionalInt(r.ManagerRating),
		"comments":      listOf(r.Comments, commentRecord),
		"createdAt":     timestamp(r.CreatedAt),
	}
}

func kpiRecord(k team.KPI) record {
	return record{
		"id":        k.ID,
		"title":     k.Title,
		"target":    k.Target,
		"current":   k.Current,
		"period":    k.Period,
		"category":  k.Category,
		"createdAt": timestamp(k.CreatedAt),
	}
}

func reviewRecord(r team.PerformanceReview) record {
	return record{
		"id":        r.ID,
		"period":    r.Period,
		"rating":    r.Rating,
		"feedback":  r.Feedback,
		"reviewer":  personRecord(r.Reviewer),
		"createdAt": timestamp(r.CreatedAt),
	}
}

func insightRecord(i team.PerformanceInsight) record {
	return record{
		"id":      i.ID,
		"content": i.Content,
		"type":    i.Type,
		"date":    timestamp(i.Date),
	}
}

func reportRatingRecord(r team.ReportRating) record {
	return record{
		"date":   timestamp(r.Date),
		"rating": r.Rating,
		"type":   r.Type,
	}
}

func performanceRecord(p team.PerformanceSummary) record {
	return record{
		"user":          ownerRecord(p.Owner),
		"kpis":          listOf(p.KPIs, kpiRecord),
		"reviews":       listOf(p.Reviews, reviewRecord),
		"insights":      listOf(p.Insights, insightRecord),
		"reportHistory": listOf(p.ReportHistory, reportRatingRecord),
	}
}

func incrementRecord(e team.IncrementEvent) record {
	return record{
		"id":            e.ID,
		"effectiveDate": timestamp(e.EffectiveDate),
		"oldSalary":     e.OldSalary.String(),
		"newSalary":     e.NewSalary.String(),
		"oldFixed":      nullDecimal(e.OldFixed),
		"newFixed":      nullDecimal(e.NewFixed),
		"status":        e.Status,
	}
}

func salaryRecord(s team.SalarySummary) record {
	var compensation any
	if c := s.Compensation; c != nil {
		compensation = record{
			"employeeCode":            c.EmployeeCode,
			"designation":             c.Designation,
			"baseSalary":              c.BaseSalary.String(),
			"fixedSalary":             nullDecimal(c.FixedSalary),
			"variableSalary":          nullDecimal(c.VariableSalary),
			"lastIncrementDate":       optionalTimestamp(c.LastIncrementDate),
			"lastIncrementPercentage": nullDecimal(c.LastIncrementPercentage),
		}
	}
	return record{
		"user":             ownerRecord(s.Owner),
		"compensation":     compensation,
		"incrementHistory": listOf(s.IncrementHistory, incrementRecord),
	}
}

func teamMemberRecord(m team.TeamMember) record {
	return record{
		"id":            m.ID,
		"userId":        m.UserID,
		"name":          m.Name,
		"email":         m.Email,
		"designation":   m.Designation,
		"employeeCode":  m.EmployeeCode,
		"dateOfJoining": optionalTimestamp(m.DateOfJoining),
		"baseSalary":    nullDecimal(m.BaseSalary),
		"role":          m.Role,
		"isActive":      m.IsActive,
		"assignedAt":    timestamp(m.AssignedAt),
	}
}

func profileRecord(p *team.TeamMemberProfile) record {
	return record{
		"userId":           p.UserID,
		"name":             p.Name,
		"email":            p.Email,
		"companyId":        p.CompanyID,
		"companyName":      p.CompanyName,
		"departmentName":   p.DepartmentName,
		"recentAttendance": listOf(p.RecentAttendance, attendanceRecord),
		"pendingLeaves":    listOf(p.PendingLeaves, leaveRecord),
		"recentReports":    listOf(p.RecentReports, workReportRecord),
		"recentReviews":    listOf(p.RecentReviews, reviewRecord),
		"incrementHistory": listOf(p.IncrementHistory, incrementRecord),
	}
}

func itemsResponse(items []any) (*structpb.Struct, error) {
	return toStruct(record{"items": items})
}
