// Package memorytest holds in-memory repositories with the same uniqueness and
// guarded-update behaviour as the PostgreSQL ones. Services use them in tests.
package memorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type AttendanceRepository struct {
	mu      sync.Mutex
	records map[string]*attendance.Attendance
	users   *UserRepository
}

// NewAttendanceRepository joins employee columns from users, which may be nil.
func NewAttendanceRepository(users *UserRepository) *AttendanceRepository {
	return &AttendanceRepository{records: map[string]*attendance.Attendance{}, users: users}
}

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)

func (r *AttendanceRepository) FindByUserAndWindow(ctx context.Context, userID string, from, to time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.UserID == userID && !a.Date.Before(from) && !a.Date.After(to) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func matches(a *attendance.Attendance, q attendance.Query) bool {
	if q.UserID != nil && a.UserID != *q.UserID {
		return false
	}
	if q.From != nil && a.Date.Before(*q.From) {
		return false
	}
	if q.To != nil && a.Date.After(*q.To) {
		return false
	}
	if q.Status != nil && a.Status != *q.Status {
		return false
	}
	return true
}

func (r *AttendanceRepository) List(ctx context.Context, q attendance.Query) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []attendance.Attendance{}
	for _, a := range r.records {
		if !matches(a, q) {
			continue
		}
		cp := *a
		if r.users != nil {
			if u, err := r.users.GetByID(ctx, a.UserID); err == nil {
				cp.EmployeeName, cp.EmployeeCode, cp.EmployeeEmail, cp.Department = &u.Name, &u.EmployeeID, &u.Email, &u.Department
			}
		}
		out = append(out, cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			if q.Ascending {
				return out[i].Date.Before(out[j].Date)
			}
			return out[i].Date.After(out[j].Date)
		}
		return out[i].UserID < out[j].UserID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *AttendanceRepository) Count(ctx context.Context, q attendance.Query) (int64, error) {
	q.Limit = 0
	list, err := r.List(ctx, q)
	return int64(len(list)), err
}

func (r *AttendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(a)
}

func (r *AttendanceRepository) create(a attendance.Attendance) (attendance.Attendance, error) {
	for _, existing := range r.records {
		if existing.UserID == a.UserID && existing.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.records[a.ID] = &a
	return a, nil
}

func (r *AttendanceRepository) RecordCheckIn(ctx context.Context, id string, at time.Time, status attendance.Status) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok || a.CheckInTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	a.CheckInTime = &at
	a.Status = status
	a.UpdatedAt = time.Now()
	return *a, nil
}

func (r *AttendanceRepository) RecordCheckOut(ctx context.Context, id string, at time.Time, totalHours float64) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok || a.CheckInTime == nil || a.CheckOutTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	a.CheckOutTime = &at
	a.TotalHours = totalHours
	a.UpdatedAt = time.Now()
	return *a, nil
}

func (r *AttendanceRepository) BulkCreateAbsences(ctx context.Context, userIDs []string, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range userIDs {
		if _, err := r.create(attendance.Attendance{UserID: id, Date: date, Status: attendance.StatusAbsent}); err == nil {
			n++
		}
	}
	return n, nil
}

// Put stores a as-is, replacing any record with the same ID.
func (r *AttendanceRepository) Put(a attendance.Attendance) attendance.Attendance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.records[a.ID] = &a
	return a
}
