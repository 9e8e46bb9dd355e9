package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `a.id, a.user_id, a.date, a.check_in_time, a.check_out_time,
		a.status, a.total_hours, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row, extra ...any) (attendance.Attendance, error) {
	var att attendance.Attendance
	dest := []any{
		&att.ID, &att.UserID, &att.Date, &att.CheckInTime, &att.CheckOutTime,
		&att.Status, &att.TotalHours, &att.CreatedAt, &att.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return att, err
}

// FindByUserAndWindow implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByUserAndWindow(ctx context.Context, userID string, from, to time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1
		  AND a.date BETWEEN $2 AND $3
		ORDER BY a.date DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and window: %w", err)
	}

	return &att, nil
}

func buildWhere(q attendance.Query) (string, []any) {
	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if q.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, *q.UserID)
		argIdx++
	}
	if q.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *q.From)
		argIdx++
	}
	if q.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *q.To)
		argIdx++
	}
	if q.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *q.Status)
	}

	return strings.Join(conditions, " AND "), args
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, q attendance.Query) ([]attendance.Attendance, error) {
	querier := GetQuerier(ctx, a.db)

	where, args := buildWhere(q)

	sortOrder := "DESC"
	if q.Ascending {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			u.name, u.employee_id, u.email, u.department
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY a.date %s, u.employee_id ASC
	`, where, sortOrder)

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, q.Limit)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances := []attendance.Attendance{}
	for rows.Next() {
		var name, code, email, department *string
		att, err := scanAttendance(rows, &name, &code, &email, &department)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.EmployeeName, att.EmployeeCode, att.EmployeeEmail, att.Department = name, code, email, department
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, nil
}

// Count implements attendance.AttendanceRepository.
func (a *attendanceRepository) Count(ctx context.Context, q attendance.Query) (int64, error) {
	querier := GetQuerier(ctx, a.db)

	where, args := buildWhere(q)

	var total int64
	if err := querier.QueryRow(ctx, `SELECT COUNT(*) FROM attendances a WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}
	return total, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances AS a (user_id, date, check_in_time, check_out_time, status, total_hours)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.UserID,
		newAttendance.Date,
		newAttendance.CheckInTime,
		newAttendance.CheckOutTime,
		newAttendance.Status,
		newAttendance.TotalHours,
	))
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// RecordCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckIn(ctx context.Context, id string, at time.Time, status attendance.Status) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances AS a
		SET check_in_time = $2, status = $3, updated_at = NOW()
		WHERE a.id = $1 AND a.check_in_time IS NULL
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query, id, at, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to record check-in: %w", err)
	}

	return updated, nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckOut(ctx context.Context, id string, at time.Time, totalHours float64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances AS a
		SET check_out_time = $2, total_hours = $3, updated_at = NOW()
		WHERE a.id = $1 AND a.check_in_time IS NOT NULL AND a.check_out_time IS NULL
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query, id, at, totalHours))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	return updated, nil
}

// BulkCreateAbsences implements attendance.AttendanceRepository.
func (a *attendanceRepository) BulkCreateAbsences(ctx context.Context, userIDs []string, date time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (user_id, date, status, total_hours)
		SELECT unnest($1::uuid[]), $2, $3, 0
		ON CONFLICT (user_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, userIDs, date, attendance.StatusAbsent)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk create absences: %w", err)
	}

	return tag.RowsAffected(), nil
}
