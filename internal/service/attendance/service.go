package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type Options struct {
	ExpectedCheckInHour int
	ListLimit           int
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	clock *timewindow.Clock
	opts  Options
}

func NewAttendanceService(attendanceRepository attendance.AttendanceRepository, userRepository user.UserRepository, clock *timewindow.Clock, opts Options) attendance.AttendanceService {
	if opts.ListLimit <= 0 {
		opts.ListLimit = 1000
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		clock:                clock,
		opts:                 opts,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	now := s.clock.Now()
	today := timewindow.Day(now)
	status := attendance.DeriveStatus(&now, s.opts.ExpectedCheckInHour)

	existing, err := s.AttendanceRepository.FindByUserAndWindow(ctx, claims.UserID, today.Start, today.End)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	var record attendance.Attendance
	if existing != nil {
		if existing.HasCheckedIn() {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		// Marked absent earlier in the day; the employee showed up after all
		record, err = s.AttendanceRepository.RecordCheckIn(ctx, existing.ID, now, status)
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				return attendance.AttendanceResponse{}, err
			}
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to record check-in: %w", err)
		}
	} else {
		record, err = s.AttendanceRepository.Create(ctx, attendance.Attendance{
			UserID:      claims.UserID,
			Date:        today.Start,
			CheckInTime: &now,
			Status:      status,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateAttendance) {
				return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
			}
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
		}
	}

	slog.Info("employee checked in", "user_id", claims.UserID, "employee_id", claims.EmployeeID, "status", record.Status)
	return attendance.NewAttendanceResponse(record, s.clock.Location()), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	now := s.clock.Now()
	today := timewindow.Day(now)

	existing, err := s.AttendanceRepository.FindByUserAndWindow(ctx, claims.UserID, today.Start, today.End)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil || !existing.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	totalHours, err := attendance.ComputeTotalHours(existing.CheckInTime, &now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.AttendanceRepository.RecordCheckOut(ctx, existing.ID, now, totalHours)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	slog.Info("employee checked out", "user_id", claims.UserID, "employee_id", claims.EmployeeID, "total_hours", record.TotalHours)
	return attendance.NewAttendanceResponse(record, s.clock.Location()), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	today := s.clock.Today()
	record, err := s.AttendanceRepository.FindByUserAndWindow(ctx, claims.UserID, today.Start, today.End)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	return attendance.NewTodayResponse(record, s.clock.Location()), nil
}

// GetMyHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyHistory(ctx context.Context, q attendance.MonthQuery) ([]attendance.AttendanceResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	month := s.clock.MonthOrCurrent(q.Year, q.Month)
	records, err := s.AttendanceRepository.List(ctx, attendance.Query{
		UserID: &claims.UserID,
		From:   &month.Start,
		To:     &month.End,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}

	return attendance.NewAttendanceResponses(records, s.clock.Location()), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	q := attendance.Query{Limit: s.opts.ListLimit}

	if filter.EmployeeID != nil {
		employee, err := s.UserRepository.GetByEmployeeID(ctx, *filter.EmployeeID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return []attendance.AttendanceResponse{}, nil
			}
			return nil, fmt.Errorf("failed to get employee by code: %w", err)
		}
		q.UserID = &employee.ID
	}

	if err := s.applyDateRange(&q, filter.StartDate, filter.EndDate); err != nil {
		return nil, err
	}

	if filter.Status != nil {
		status := attendance.Status(*filter.Status)
		q.Status = &status
	}

	records, err := s.AttendanceRepository.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return attendance.NewAttendanceResponses(records, s.clock.Location()), nil
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, userID string, filter attendance.DateRangeFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if !validator.IsValidUUID(userID) {
		return nil, attendance.ErrEmployeeNotFound
	}

	employee, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, attendance.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	q := attendance.Query{UserID: &employee.ID, Limit: s.opts.ListLimit}
	if err := s.applyDateRange(&q, filter.StartDate, filter.EndDate); err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee attendance: %w", err)
	}

	return attendance.NewAttendanceResponses(records, s.clock.Location()), nil
}

// applyDateRange widens YYYY-MM-DD bounds to whole days in the server zone.
func (s *AttendanceServiceImpl) applyDateRange(q *attendance.Query, start, end *string) error {
	if start != nil && *start != "" {
		d, err := timewindow.ParseDate(*start, s.clock.Location())
		if err != nil {
			return validator.ValidationErrors{{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"}}
		}
		from := timewindow.StartOfDay(d)
		q.From = &from
	}
	if end != nil && *end != "" {
		d, err := timewindow.ParseDate(*end, s.clock.Location())
		if err != nil {
			return validator.ValidationErrors{{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"}}
		}
		to := timewindow.EndOfDay(d)
		q.To = &to
	}
	return nil
}
