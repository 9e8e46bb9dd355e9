package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timewindow"
)

const MarkAbsentJobName = "mark_absent_employees"

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	clock          *timewindow.Clock
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, userRepo user.UserRepository, clock *timewindow.Clock) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		clock:          clock,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(MarkAbsentJobName, 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees writes an explicit absent record for every roster
// employee with no record yesterday. Accounts created after yesterday are
// skipped. Re-running is harmless: existing (user, date) rows are left alone.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := timewindow.Day(j.clock.Now().AddDate(0, 0, -1))

	roster, err := j.userRepo.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	roster = user.JoinedBefore(roster, yesterday.End)
	if len(roster) == 0 {
		return nil
	}

	records, err := j.attendanceRepo.List(ctx, attendance.Query{From: &yesterday.Start, To: &yesterday.End})
	if err != nil {
		return fmt.Errorf("failed to list attendance for %s: %w", timewindow.FormatDate(yesterday.Start), err)
	}

	recorded := make(map[string]bool, len(records))
	for _, r := range records {
		recorded[r.UserID] = true
	}

	missing := make([]string, 0, len(roster))
	for _, u := range roster {
		if !recorded[u.ID] {
			missing = append(missing, u.ID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	inserted, err := j.attendanceRepo.BulkCreateAbsences(ctx, missing, yesterday.Start)
	if err != nil {
		return fmt.Errorf("failed to mark absences: %w", err)
	}

	slog.Info("cron: marked employees absent", "date", timewindow.FormatDate(yesterday.Start), "count", inserted)
	return nil
}
