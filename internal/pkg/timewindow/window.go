package timewindow

import "time"

const (
	dateLayout      = "2006-01-02"
	lastMillisecond = 999 * int(time.Millisecond)
)

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, lastMillisecond, t.Location())
}

// StartOfMonth returns the first day of t's month at start of day.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of t's month at end of day.
// Day 0 of the following month normalises to the last day of t's month,
// so month lengths and leap years need no lookup.
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 23, 59, 59, lastMillisecond, t.Location())
}

// IsSameDay reports whether a and b fall on the same calendar day,
// with b viewed in a's location.
func IsSameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Window is a closed interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Day returns the window covering t's calendar day.
func Day(t time.Time) Window {
	return Window{Start: StartOfDay(t), End: EndOfDay(t)}
}

// Month returns the window covering t's calendar month.
func Month(t time.Time) Window {
	return Window{Start: StartOfMonth(t), End: EndOfMonth(t)}
}

// MonthOf returns the window for a 1-based month of year in loc.
func MonthOf(year int, month time.Month, loc *time.Location) Window {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, loc))
}

// Range widens [from, to] to whole days.
func Range(from, to time.Time) Window {
	return Window{Start: StartOfDay(from), End: EndOfDay(to)}
}

// TrailingDays returns the window spanning the n calendar days ending on t's day.
func TrailingDays(t time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	return Window{Start: StartOfDay(t.AddDate(0, 0, -(n - 1))), End: EndOfDay(t)}
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days lists the start of every calendar day covered by the window, oldest first.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := StartOfDay(w.Start); !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses YYYY-MM-DD in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}
