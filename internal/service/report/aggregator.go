package report

import (
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timewindow"
)

// TrendDays is the length of the dashboard trend.
const TrendDays = 7

// SummarizePersonal counts records by status and totals their hours.
func SummarizePersonal(records []attendance.Attendance) report.PersonalSummary {
	summary := report.PersonalSummary{TotalDays: len(records)}
	hours := make([]float64, 0, len(records))

	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			summary.Present++
		case attendance.StatusAbsent:
			summary.Absent++
		case attendance.StatusLate:
			summary.Late++
		case attendance.StatusHalfDay:
			summary.HalfDay++
		}
		hours = append(hours, r.TotalHours)
	}

	summary.TotalHours = attendance.SumHours(hours...)
	return summary
}

// SummarizeTeam aggregates a month of records against the roster size.
func SummarizeTeam(records []attendance.Attendance, totalEmployees int64) report.TeamSummary {
	p := SummarizePersonal(records)
	return report.TeamSummary{
		TotalEmployees: totalEmployees,
		TotalRecords:   p.TotalDays,
		TotalPresent:   p.Present,
		TotalAbsent:    p.Absent,
		TotalLate:      p.Late,
		TotalHalfDay:   p.HalfDay,
		TotalHours:     p.TotalHours,
	}
}

// isPresent holds for an open check-in or a present/late status.
func isPresent(r attendance.Attendance) bool {
	return r.IsOpen() || r.Status == attendance.StatusPresent || r.Status == attendance.StatusLate
}

// ClassifyDay splits the roster for the calendar day containing day.
// Records dated on other days are ignored. Roster members with no record are
// absent, as are explicit absent records; each employee is listed once.
// Accounts created after the day ends are not on that day's roster.
func ClassifyDay(day time.Time, records []attendance.Attendance, roster []user.User) report.DayStatus {
	window := timewindow.Day(day)
	loc := day.Location()
	roster = user.JoinedBefore(roster, window.End)

	status := report.DayStatus{
		Date:             timewindow.FormatDate(window.Start),
		TotalEmployees:   len(roster),
		PresentEmployees: []report.EmployeeStatus{},
		AbsentEmployees:  []report.EmployeeStatus{},
		LateEmployees:    []report.EmployeeStatus{},
	}

	byID := make(map[string]user.User, len(roster))
	for _, u := range roster {
		byID[u.ID] = u
	}

	seen := make(map[string]bool)
	absent := make(map[string]bool)
	for _, r := range records {
		if !window.Contains(r.Date) || seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true

		entry := employeeStatus(r, byID, loc)
		switch {
		case isPresent(r):
			status.PresentEmployees = append(status.PresentEmployees, entry)
			if r.Status == attendance.StatusLate {
				status.LateEmployees = append(status.LateEmployees, entry)
			}
		case r.Status == attendance.StatusAbsent:
			absent[r.UserID] = true
			status.AbsentEmployees = append(status.AbsentEmployees, entry)
		}
	}

	for _, u := range roster {
		if seen[u.ID] || absent[u.ID] {
			continue
		}
		absent[u.ID] = true
		status.AbsentEmployees = append(status.AbsentEmployees, report.EmployeeStatus{
			ID:         u.ID,
			Name:       u.Name,
			EmployeeID: u.EmployeeID,
			Department: u.Department,
		})
	}

	status.Present = len(status.PresentEmployees)
	status.Absent = len(status.AbsentEmployees)
	status.Late = len(status.LateEmployees)
	return status
}

func employeeStatus(r attendance.Attendance, roster map[string]user.User, loc *time.Location) report.EmployeeStatus {
	entry := report.EmployeeStatus{ID: r.UserID}
	if u, ok := roster[r.UserID]; ok {
		entry.Name = u.Name
		entry.EmployeeID = u.EmployeeID
		entry.Department = u.Department
	} else {
		entry.Name = deref(r.EmployeeName)
		entry.EmployeeID = deref(r.EmployeeCode)
		entry.Department = deref(r.Department)
	}
	if r.CheckInTime != nil {
		s := r.CheckInTime.In(loc).Format(time.RFC3339)
		entry.CheckInTime = &s
	}
	return entry
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// RollupDepartments groups records by the owning user's department, sorted by
// name. Records whose user is not on the roster are skipped.
func RollupDepartments(records []attendance.Attendance, roster []user.User) []report.DepartmentStats {
	departmentOf := make(map[string]string, len(roster))
	for _, u := range roster {
		departmentOf[u.ID] = u.Department
	}

	grouped := make(map[string][]attendance.Attendance)
	for _, r := range records {
		dept, ok := departmentOf[r.UserID]
		if !ok {
			slog.Warn("attendance record without roster user", "attendance_id", r.ID, "user_id", r.UserID)
			continue
		}
		grouped[dept] = append(grouped[dept], r)
	}

	stats := make([]report.DepartmentStats, 0, len(grouped))
	for dept, recs := range grouped {
		stats = append(stats, report.DepartmentStats{
			Department:      dept,
			PersonalSummary: SummarizePersonal(recs),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Department < stats[j].Department
	})
	return stats
}

// WeeklyTrend classifies each of the TrendDays days ending on today, oldest
// first, against the roster as it stood on each day.
func WeeklyTrend(today time.Time, records []attendance.Attendance, roster []user.User) []report.DailyTrend {
	days := timewindow.TrailingDays(today, TrendDays).Days()
	trend := make([]report.DailyTrend, 0, len(days))

	for _, d := range days {
		day := ClassifyDay(d, records, roster)
		trend = append(trend, report.DailyTrend{
			Date:    day.Date,
			Present: day.Present,
			Absent:  day.Absent,
			Late:    day.Late,
		})
	}
	return trend
}
