package dashboard

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

// ========== EMPLOYEE DASHBOARD ==========

// EmployeeDashboardResponse is the landing view of a single employee
type EmployeeDashboardResponse struct {
	TodayStatus      attendance.TodayResponse        `json:"today_status"`
	MonthlySummary   report.PersonalSummary          `json:"monthly_summary"`
	RecentAttendance []attendance.AttendanceResponse `json:"recent_attendance"` // last 7 days, newest first
}

// ========== MANAGER DASHBOARD ==========

type TodayAttendance struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

// ManagerDashboardResponse is the team overview for managers
type ManagerDashboardResponse struct {
	TotalEmployees  int                      `json:"total_employees"`
	TodayAttendance TodayAttendance          `json:"today_attendance"`
	LateArrivals    []report.EmployeeStatus  `json:"late_arrivals"`
	AbsentEmployees []report.EmployeeStatus  `json:"absent_employees"`
	WeeklyTrend     []report.DailyTrend      `json:"weekly_trend"`    // oldest first
	DepartmentWise  []report.DepartmentStats `json:"department_wise"` // current month
	GeneratedAt     string                   `json:"generated_at"`
}
