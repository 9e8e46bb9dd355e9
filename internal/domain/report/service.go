package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// ReportService serves attendance aggregates.
type ReportService interface {
	// GetMySummary summarises the authenticated employee's month
	GetMySummary(ctx context.Context, q attendance.MonthQuery) (PersonalSummary, error)

	// GetTeamSummary summarises every record of a month (manager)
	GetTeamSummary(ctx context.Context, q attendance.MonthQuery) (TeamSummary, error)

	// GetTodayStatus classifies the roster for today (manager)
	GetTodayStatus(ctx context.Context) (DayStatus, error)

	// Export renders filtered records as CSV or XLSX (manager)
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
}
