package team

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// UnknownCompanyName は会社未所属のレコードに付与する会社名です。
	UnknownCompanyName = "Unknown"
	// UnassignedDepartmentName は部署未所属の社員に付与する部署名です。
	UnassignedDepartmentName = "Unassigned"
)

// Owner はレコードを所有するユーザーと、その所属会社の関連です。
// 会社未所属の場合 CompanyID / CompanyName は nil です。
type Owner struct {
	UserID      string
	Name        string
	Email       string
	CompanyID   *string
	CompanyName *string
}

// Scoped はドメインレコードに所属会社の情報を付与したものです。
// CompanyID / CompanyName は常に値を持ちます。
type Scoped[T any] struct {
	Record      T
	CompanyID   string
	CompanyName string
}

// Decorate は所有者の会社情報をレコードに付与します。
func Decorate[T any](owner Owner, record T) Scoped[T] {
	companyID := ""
	if owner.CompanyID != nil {
		companyID = *owner.CompanyID
	}
	companyName := UnknownCompanyName
	if owner.CompanyName != nil && *owner.CompanyName != "" {
		companyName = *owner.CompanyName
	}
	return Scoped[T]{Record: record, CompanyID: companyID, CompanyName: companyName}
}

// Person は承認者やレビュアーなどの表示用情報です。
type Person struct {
	Name  string
	Email string
}

// Shift は勤務シフトです。
type Shift struct {
	Name      string
	StartTime string
	EndTime   string
}

// AttendanceEntry は勤怠レコードです。
type AttendanceEntry struct {
	ID         string
	EmployeeID string
	Owner      Owner
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     string
	WorkFrom   string
	Shift      *Shift
}

// LeaveStatus は休暇申請の状態です。
type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "PENDING"
	LeaveStatusApproved  LeaveStatus = "APPROVED"
	LeaveStatusRejected  LeaveStatus = "REJECTED"
	LeaveStatusCancelled LeaveStatus = "CANCELLED"
)

// LeaveRequest は休暇申請です。
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Owner      Owner
	Type       string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     LeaveStatus
	Remarks    string
	ApprovedBy *Person
	CreatedAt  time.Time
}

// ReportStatus は業務報告の状態です。
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "PENDING"
	ReportStatusSubmitted ReportStatus = "SUBMITTED"
	ReportStatusApproved  ReportStatus = "APPROVED"
	ReportStatusRejected  ReportStatus = "REJECTED"
	ReportStatusRevision  ReportStatus = "REVISION"
)

// ReportComment は業務報告へのコメントです。
type ReportComment struct {
	ID        string
	Content   string
	Author    Person
	CreatedAt time.Time
}

// WorkReport は日次の業務報告です。
type WorkReport struct {
	ID            string
	EmployeeID    string
	Owner         Owner
	Date          time.Time
	Content       string
	Status        ReportStatus
	SelfRating    *int
	ManagerRating *int
	Comments      []ReportComment
	CreatedAt     time.Time
}

// KPI は社員に設定された KPI です。
type KPI struct {
	ID        string
	Title     string
	Target    float64
	Current   float64
	Period    string
	Category  string
	CreatedAt time.Time
}

// PerformanceReview は評価レビューです。
type PerformanceReview struct {
	ID        string
	Period    string
	Rating    float64
	Feedback  string
	Reviewer  *Person
	CreatedAt time.Time
}

// PerformanceInsight は自由記述の所見です。
type PerformanceInsight struct {
	ID      string
	Content string
	Type    string
	Date    time.Time
}

// ReportRating は承認済み業務報告の評価推移です。
type ReportRating struct {
	Date   time.Time
	Rating int
	Type   string
}

// PerformanceSummary は社員ごとの評価データです。
type PerformanceSummary struct {
	Owner         Owner
	KPIs          []KPI
	Reviews       []PerformanceReview
	Insights      []PerformanceInsight
	ReportHistory []ReportRating
}

// Compensation は現在の給与情報です。
type Compensation struct {
	EmployeeCode            string
	Designation             string
	BaseSalary              decimal.Decimal
	FixedSalary             decimal.NullDecimal
	VariableSalary          decimal.NullDecimal
	LastIncrementDate       *time.Time
	LastIncrementPercentage decimal.NullDecimal
}

// IncrementEvent は昇給履歴です。
type IncrementEvent struct {
	ID            string
	EffectiveDate time.Time
	OldSalary     decimal.Decimal
	NewSalary     decimal.Decimal
	OldFixed      decimal.NullDecimal
	NewFixed      decimal.NullDecimal
	Status        string
}

// SalarySummary は社員ごとの給与データです。社員プロファイルがない場合 Compensation は nil です。
type SalarySummary struct {
	Owner            Owner
	Compensation     *Compensation
	IncrementHistory []IncrementEvent
}

// Member はユーザーの所属情報です。
type Member struct {
	Owner             Owner
	DepartmentID      *string
	DepartmentName    *string
	EmployeeProfileID *string
	EmployeeCode      string
	Designation       string
	DateOfJoining     *time.Time
	BaseSalary        decimal.NullDecimal
	IsActive          bool
	CreatedAt         time.Time
	Assignment        *Assignment
}

// Assignment は明示的なチーム割り当てです。
type Assignment struct {
	ID         string
	Role       string
	AssignedAt time.Time
	IsActive   bool
}

// TeamMember はマネージャーのチーム一覧に表示するメンバーです。
type TeamMember struct {
	ID            string
	UserID        string
	Name          string
	Email         string
	Designation   string
	EmployeeCode  string
	DateOfJoining *time.Time
	BaseSalary    decimal.NullDecimal
	Role          string
	IsActive      bool
	AssignedAt    time.Time
}

// TeamMemberProfile はチームメンバー詳細画面向けの非正規化ビューです。
type TeamMemberProfile struct {
	UserID           string
	Name             string
	Email            string
	CompanyID        string
	CompanyName      string
	DepartmentName   string
	RecentAttendance []AttendanceEntry
	PendingLeaves    []LeaveRequest
	RecentReports    []WorkReport
	RecentReviews    []PerformanceReview
	IncrementHistory []IncrementEvent
}
