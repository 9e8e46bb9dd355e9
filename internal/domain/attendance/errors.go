package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out conflicts
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("please check in first")
	ErrAlreadyCheckedOut = errors.New("already checked out today")

	// Validation
	ErrCheckOutBeforeCheckIn = errors.New("check-out time must be after check-in time")
	ErrInvalidStatus         = errors.New("invalid attendance status")

	// Storage
	ErrDuplicateAttendance = errors.New("attendance for this user and date already exists")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
)
