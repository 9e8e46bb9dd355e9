package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

// Automatic derivation only yields present, late, or absent. StatusHalfDay is
// a valid stored value but nothing in this service writes it.
const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

// DefaultExpectedCheckInHour is 09:00 server local time.
const DefaultExpectedCheckInHour = 9

var validStatuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay}

// ValidStatuses returns every storable status.
func ValidStatuses() []Status {
	out := make([]Status, len(validStatuses))
	copy(out, validStatuses)
	return out
}

func (s Status) IsValid() bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus normalises s and rejects unknown values.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

// DeriveStatus classifies a check-in against the expected arrival hour.
// Arrival exactly on the hour is present; any later minute is late.
func DeriveStatus(checkIn *time.Time, expectedHour int) Status {
	if checkIn == nil {
		return StatusAbsent
	}

	minutes := checkIn.Hour()*60 + checkIn.Minute()
	if minutes > expectedHour*60 {
		return StatusLate
	}
	return StatusPresent
}

var msPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// ComputeTotalHours returns the elapsed hours between check-in and check-out
// rounded to two decimals. Missing timestamps yield 0.
func ComputeTotalHours(checkIn, checkOut *time.Time) (float64, error) {
	if checkIn == nil || checkOut == nil {
		return 0, nil
	}
	if checkOut.Before(*checkIn) {
		return 0, ErrCheckOutBeforeCheckIn
	}

	ms := decimal.NewFromInt(checkOut.Sub(*checkIn).Milliseconds())
	return ms.Div(msPerHour).Round(2).InexactFloat64(), nil
}

// RoundHours rounds h to two decimals, half away from zero.
func RoundHours(h float64) float64 {
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}

// SumHours adds hour values and rounds the total to two decimals.
func SumHours(hours ...float64) float64 {
	total := decimal.Zero
	for _, h := range hours {
		total = total.Add(decimal.NewFromFloat(h))
	}
	return total.Round(2).InexactFloat64()
}
