package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the authenticated employee
	CheckIn(ctx context.Context) (AttendanceResponse, error)

	// CheckOut closes today's record for the authenticated employee
	CheckOut(ctx context.Context) (AttendanceResponse, error)

	// GetToday returns the authenticated employee's state for today
	GetToday(ctx context.Context) (TodayResponse, error)

	// GetMyHistory returns the authenticated employee's records for a month
	GetMyHistory(ctx context.Context, q MonthQuery) ([]AttendanceResponse, error)

	// ListAttendance retrieves records of all employees with filters (manager)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)

	// GetEmployeeAttendance retrieves one employee's records (manager)
	GetEmployeeAttendance(ctx context.Context, userID string, filter DateRangeFilter) ([]AttendanceResponse, error)
}
