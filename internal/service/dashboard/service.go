package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timewindow"
	reportsvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"golang.org/x/sync/errgroup"
)

const recentAttendanceLimit = 7

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	clock *timewindow.Clock
}

func NewDashboardService(attendanceRepository attendance.AttendanceRepository, userRepository user.UserRepository, clock *timewindow.Clock) dashboard.DashboardService {
	return &DashboardServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		clock:                clock,
	}
}

// GetEmployeeDashboard fetches today, the month and the recent week in parallel.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context) (*dashboard.EmployeeDashboardResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	now := s.clock.Now()
	today := timewindow.Day(now)
	month := timewindow.Month(now)
	week := timewindow.TrailingDays(now, reportsvc.TrendDays)
	loc := s.clock.Location()

	var (
		todayRecord   *attendance.Attendance
		monthRecords  []attendance.Attendance
		recentRecords []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's record
	g.Go(func() error {
		record, err := s.AttendanceRepository.FindByUserAndWindow(gCtx, claims.UserID, today.Start, today.End)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		todayRecord = record
		return nil
	})

	// 2. Current month
	g.Go(func() error {
		records, err := s.AttendanceRepository.List(gCtx, attendance.Query{
			UserID: &claims.UserID,
			From:   &month.Start,
			To:     &month.End,
		})
		if err != nil {
			return fmt.Errorf("failed to list monthly attendance: %w", err)
		}
		monthRecords = records
		return nil
	})

	// 3. Recent week
	g.Go(func() error {
		records, err := s.AttendanceRepository.List(gCtx, attendance.Query{
			UserID: &claims.UserID,
			From:   &week.Start,
			To:     &week.End,
			Limit:  recentAttendanceLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list recent attendance: %w", err)
		}
		recentRecords = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.EmployeeDashboardResponse{
		TodayStatus:      attendance.NewTodayResponse(todayRecord, loc),
		MonthlySummary:   reportsvc.SummarizePersonal(monthRecords),
		RecentAttendance: attendance.NewAttendanceResponses(recentRecords, loc),
	}, nil
}

// GetManagerDashboard fetches the roster, the trailing week and the month in
// parallel and derives every panel from them.
func (s *DashboardServiceImpl) GetManagerDashboard(ctx context.Context) (*dashboard.ManagerDashboardResponse, error) {
	now := s.clock.Now()
	month := timewindow.Month(now)
	week := timewindow.TrailingDays(now, reportsvc.TrendDays)

	var (
		roster       []user.User
		weekRecords  []attendance.Attendance
		monthRecords []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.UserRepository.ListByRole(gCtx, user.RoleEmployee)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		roster = users
		return nil
	})

	g.Go(func() error {
		records, err := s.AttendanceRepository.List(gCtx, attendance.Query{From: &week.Start, To: &week.End})
		if err != nil {
			return fmt.Errorf("failed to list weekly attendance: %w", err)
		}
		weekRecords = records
		return nil
	})

	g.Go(func() error {
		records, err := s.AttendanceRepository.List(gCtx, attendance.Query{From: &month.Start, To: &month.End})
		if err != nil {
			return fmt.Errorf("failed to list monthly attendance: %w", err)
		}
		monthRecords = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	today := reportsvc.ClassifyDay(now, weekRecords, roster)

	return &dashboard.ManagerDashboardResponse{
		TotalEmployees: len(roster),
		TodayAttendance: dashboard.TodayAttendance{
			Present: today.Present,
			Absent:  today.Absent,
			Late:    today.Late,
		},
		LateArrivals:    today.LateEmployees,
		AbsentEmployees: today.AbsentEmployees,
		WeeklyTrend:     reportsvc.WeeklyTrend(now, weekRecords, roster),
		DepartmentWise:  reportsvc.RollupDepartments(monthRecords, roster),
		GeneratedAt:     now.Format(time.RFC3339),
	}, nil
}
