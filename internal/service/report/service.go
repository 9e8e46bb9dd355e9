package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timewindow"
	"github.com/google/uuid"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportHeader = []string{
	"Date", "Employee ID", "Name", "Email", "Department",
	"Check In Time", "Check Out Time", "Status", "Total Hours",
}

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	clock *timewindow.Clock
}

func NewReportService(attendanceRepository attendance.AttendanceRepository, userRepository user.UserRepository, clock *timewindow.Clock) report.ReportService {
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		clock:                clock,
	}
}

// GetMySummary implements report.ReportService.
func (s *ReportServiceImpl) GetMySummary(ctx context.Context, q attendance.MonthQuery) (report.PersonalSummary, error) {
	if err := q.Validate(); err != nil {
		return report.PersonalSummary{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return report.PersonalSummary{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	month := s.clock.MonthOrCurrent(q.Year, q.Month)
	records, err := s.AttendanceRepository.List(ctx, attendance.Query{
		UserID: &claims.UserID,
		From:   &month.Start,
		To:     &month.End,
	})
	if err != nil {
		return report.PersonalSummary{}, fmt.Errorf("failed to list monthly attendance: %w", err)
	}

	return SummarizePersonal(records), nil
}

// GetTeamSummary implements report.ReportService.
func (s *ReportServiceImpl) GetTeamSummary(ctx context.Context, q attendance.MonthQuery) (report.TeamSummary, error) {
	if err := q.Validate(); err != nil {
		return report.TeamSummary{}, err
	}

	month := s.clock.MonthOrCurrent(q.Year, q.Month)
	records, err := s.AttendanceRepository.List(ctx, attendance.Query{From: &month.Start, To: &month.End})
	if err != nil {
		return report.TeamSummary{}, fmt.Errorf("failed to list team attendance: %w", err)
	}

	total, err := s.UserRepository.CountByRole(ctx, user.RoleEmployee)
	if err != nil {
		return report.TeamSummary{}, fmt.Errorf("failed to count employees: %w", err)
	}

	summary := SummarizeTeam(records, total)
	summary.Month = int(month.Start.Month())
	summary.Year = month.Start.Year()
	return summary, nil
}

// GetTodayStatus implements report.ReportService.
func (s *ReportServiceImpl) GetTodayStatus(ctx context.Context) (report.DayStatus, error) {
	now := s.clock.Now()
	today := timewindow.Day(now)

	records, err := s.AttendanceRepository.List(ctx, attendance.Query{From: &today.Start, To: &today.End})
	if err != nil {
		return report.DayStatus{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	roster, err := s.UserRepository.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return report.DayStatus{}, fmt.Errorf("failed to list employees: %w", err)
	}

	return ClassifyDay(now, records, roster), nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	records, err := s.exportRecords(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	table := export.Table{Sheet: "Attendance", Header: exportHeader, Rows: make([][]any, 0, len(records))}
	for _, r := range records {
		table.Rows = append(table.Rows, s.exportRow(r))
	}

	format := export.Format(req.Format)
	var buf bytes.Buffer
	if err := export.Write(&buf, format, table); err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	base := fmt.Sprintf("attendance_export_%s_%s", s.clock.Now().Format("20060102"), uuid.NewString()[:8])
	return report.ExportFile{
		Filename:    format.Filename(base),
		ContentType: format.ContentType(),
		Content:     buf.Bytes(),
	}, nil
}

func (s *ReportServiceImpl) exportRecords(ctx context.Context, req report.ExportRequest) ([]attendance.Attendance, error) {
	var q attendance.Query

	if req.EmployeeID != nil {
		employee, err := s.UserRepository.GetByEmployeeID(ctx, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get employee by code: %w", err)
		}
		q.UserID = &employee.ID
	}

	loc := s.clock.Location()
	if req.StartDate != nil && *req.StartDate != "" {
		d, err := timewindow.ParseDate(*req.StartDate, loc)
		if err != nil {
			return nil, err
		}
		from := timewindow.StartOfDay(d)
		q.From = &from
	}
	if req.EndDate != nil && *req.EndDate != "" {
		d, err := timewindow.ParseDate(*req.EndDate, loc)
		if err != nil {
			return nil, err
		}
		to := timewindow.EndOfDay(d)
		q.To = &to
	}

	records, err := s.AttendanceRepository.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for export: %w", err)
	}
	return records, nil
}

func (s *ReportServiceImpl) exportRow(r attendance.Attendance) []any {
	loc := s.clock.Location()
	return []any{
		timewindow.FormatDate(r.Date.In(loc)),
		deref(r.EmployeeCode),
		deref(r.EmployeeName),
		deref(r.EmployeeEmail),
		deref(r.Department),
		exportTime(r.CheckInTime, loc),
		exportTime(r.CheckOutTime, loc),
		string(r.Status),
		r.TotalHours,
	}
}

func exportTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "N/A"
	}
	return t.In(loc).Format(exportTimeLayout)
}
