package report

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// PersonalSummary counts one set of records by status.
type PersonalSummary struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	HalfDay    int     `json:"half_day"`
	TotalHours float64 `json:"total_hours"`
	TotalDays  int     `json:"total_days"`
}

// EmployeeStatus identifies a roster employee in day listings.
type EmployeeStatus struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	EmployeeID  string  `json:"employee_id"`
	Department  string  `json:"department"`
	CheckInTime *string `json:"check_in_time,omitempty"`
}

// DayStatus classifies the team for one calendar day. Late employees are
// also counted as present.
type DayStatus struct {
	Date             string           `json:"date"`
	TotalEmployees   int              `json:"total_employees"`
	Present          int              `json:"present"`
	Absent           int              `json:"absent"`
	Late             int              `json:"late"`
	PresentEmployees []EmployeeStatus `json:"present_employees"`
	AbsentEmployees  []EmployeeStatus `json:"absent_employees"`
	LateEmployees    []EmployeeStatus `json:"late_employees"`
}

type DepartmentStats struct {
	Department string `json:"department"`
	PersonalSummary
}

type DailyTrend struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Late    int    `json:"late"`
}

// TeamSummary aggregates every record of a month.
type TeamSummary struct {
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	TotalEmployees int64   `json:"total_employees"`
	TotalRecords   int     `json:"total_records"`
	TotalPresent   int     `json:"total_present"`
	TotalAbsent    int     `json:"total_absent"`
	TotalLate      int     `json:"total_late"`
	TotalHalfDay   int     `json:"total_half_day"`
	TotalHours     float64 `json:"total_hours"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

type ExportRequest struct {
	Format     string  `json:"format"`
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = string(ExportFormatCSV)
	}
	if !validator.IsOneOf(r.Format, string(ExportFormatCSV), string(ExportFormatXLSX)) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: csv, xlsx",
		})
	}

	filter := attendance.AttendanceFilter{EmployeeID: r.EmployeeID, StartDate: r.StartDate, EndDate: r.EndDate}
	if err := filter.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	r.EmployeeID = filter.EmployeeID

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportFile is a rendered attendance export.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
