package attendance

import (
	"time"
)

// Attendance is the record of one user on one calendar day.
// Date holds the start of that day in the server time zone.
type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	TotalHours   float64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	EmployeeName  *string
	EmployeeCode  *string
	EmployeeEmail *string
	Department    *string
}

// HasCheckedIn reports whether a check-in has been recorded.
func (a *Attendance) HasCheckedIn() bool {
	return a.CheckInTime != nil
}

// HasCheckedOut reports whether a check-out has been recorded.
func (a *Attendance) HasCheckedOut() bool {
	return a.CheckOutTime != nil
}

// IsOpen reports a check-in without a matching check-out.
func (a *Attendance) IsOpen() bool {
	return a.HasCheckedIn() && !a.HasCheckedOut()
}
