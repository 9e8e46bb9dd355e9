package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type EmployeeInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department"`
}

type AttendanceResponse struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Date         string        `json:"date"`
	CheckInTime  *string       `json:"check_in_time"`
	CheckOutTime *string       `json:"check_out_time"`
	Status       string        `json:"status"`
	TotalHours   float64       `json:"total_hours"`
	Employee     *EmployeeInfo `json:"employee,omitempty"`
	CreatedAt    string        `json:"created_at"`
}

type TodayResponse struct {
	CheckedIn    bool    `json:"checked_in"`
	CheckedOut   bool    `json:"checked_out"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       string  `json:"status"`
	TotalHours   float64 `json:"total_hours"`
}

// MonthQuery selects a calendar month; zero values mean the current month.
type MonthQuery struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (q *MonthQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.Month != 0 && (q.Month < 1 || q.Month > 12) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if q.Year != 0 && (q.Year < 1970 || q.Year > 9999) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 1970 and 9999",
		})
	}
	if (q.Month == 0) != (q.Year == 0) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month and year must be provided together",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DateRangeFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *DateRangeFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"` // EMP code
	StartDate  *string `json:"start_date,omitempty"`  // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`    // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && validator.IsEmpty(*f.EmployeeID) {
		f.EmployeeID = nil
	}

	if f.Status != nil {
		normalized := strings.ToLower(strings.TrimSpace(*f.Status))
		f.Status = &normalized
		if !Status(normalized).IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: present, absent, late, half-day",
			})
		}
	}

	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateDateRange(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	var startDate, endDate validator.Date
	var startOK, endOK bool

	if start != nil && *start != "" {
		d, err := validator.ParseDate(*start)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		} else {
			startDate, startOK = d, true
		}
	}

	if end != nil && *end != "" {
		d, err := validator.ParseDate(*end)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		} else {
			endDate, endOK = d, true
		}
	}

	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	return errs
}

func formatTime(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NewAttendanceResponse renders a record in the server time zone. Employee
// identity is included when the record was loaded with it.
func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Date:         a.Date.In(loc).Format(time.DateOnly),
		CheckInTime:  formatTime(a.CheckInTime, loc),
		CheckOutTime: formatTime(a.CheckOutTime, loc),
		Status:       string(a.Status),
		TotalHours:   a.TotalHours,
		CreatedAt:    a.CreatedAt.In(loc).Format(time.RFC3339),
	}
	if a.EmployeeCode != nil {
		resp.Employee = &EmployeeInfo{
			ID:         a.UserID,
			Name:       derefString(a.EmployeeName),
			EmployeeID: *a.EmployeeCode,
			Email:      derefString(a.EmployeeEmail),
			Department: derefString(a.Department),
		}
	}
	return resp
}

func NewAttendanceResponses(records []Attendance, loc *time.Location) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, NewAttendanceResponse(a, loc))
	}
	return out
}

// NewTodayResponse describes today's state; a nil record means no activity yet.
func NewTodayResponse(a *Attendance, loc *time.Location) TodayResponse {
	if a == nil {
		return TodayResponse{Status: string(StatusAbsent)}
	}
	return TodayResponse{
		CheckedIn:    a.HasCheckedIn(),
		CheckedOut:   a.HasCheckedOut(),
		CheckInTime:  formatTime(a.CheckInTime, loc),
		CheckOutTime: formatTime(a.CheckOutTime, loc),
		Status:       string(a.Status),
		TotalHours:   a.TotalHours,
	}
}
