package attendance

import (
	"context"
	"time"
)

// Query narrows a record lookup. Nil fields are not filtered on.
type Query struct {
	UserID *string
	From   *time.Time
	To     *time.Time
	Status *Status
	Limit  int
	// Ascending orders by date oldest first; the default is newest first.
	Ascending bool
}

// AttendanceRepository defines data access for attendance records.
// (user_id, date) is unique in storage.
type AttendanceRepository interface {
	// FindByUserAndWindow returns the user's record dated within [from, to], or nil.
	FindByUserAndWindow(ctx context.Context, userID string, from, to time.Time) (*Attendance, error)

	// List returns records matching q, joined with employee identity.
	List(ctx context.Context, q Query) ([]Attendance, error)

	// Count returns the number of records matching q.
	Count(ctx context.Context, q Query) (int64, error)

	// Create inserts a record. A (user_id, date) clash returns ErrDuplicateAttendance.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// RecordCheckIn sets check-in time and status on a record that has none.
	// Returns ErrAlreadyCheckedIn when the record was checked in concurrently.
	RecordCheckIn(ctx context.Context, id string, at time.Time, status Status) (Attendance, error)

	// RecordCheckOut sets check-out time and total hours on an open record.
	// Returns ErrAlreadyCheckedOut when the record was closed concurrently.
	RecordCheckOut(ctx context.Context, id string, at time.Time, totalHours float64) (Attendance, error)

	// BulkCreateAbsences inserts absent records, skipping (user_id, date) pairs that exist.
	BulkCreateAbsences(ctx context.Context, userIDs []string, date time.Time) (int64, error)
}
