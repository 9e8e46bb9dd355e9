package timewindow

import "time"

// Clock pins "now" and the server time zone for everything that needs a
// reference instant. The functions in this package never read the wall clock;
// callers take the instant from a Clock and pass it in.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a Clock reading the system time in loc.
func NewClock(loc *time.Location) *Clock {
	return NewClockFunc(loc, time.Now)
}

// NewClockFunc returns a Clock backed by now, used by tests to freeze time.
func NewClockFunc(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc, now: now}
}

// Location returns the server time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the server time zone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the window of the current calendar day.
func (c *Clock) Today() Window {
	return Day(c.Now())
}

// ThisMonth returns the window of the current calendar month.
func (c *Clock) ThisMonth() Window {
	return Month(c.Now())
}

// MonthOrCurrent returns the given month's window, or the current month when
// year or month is zero.
func (c *Clock) MonthOrCurrent(year int, month int) Window {
	if year == 0 || month == 0 {
		return c.ThisMonth()
	}
	return MonthOf(year, time.Month(month), c.loc)
}
