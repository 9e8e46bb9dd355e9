// Package validator holds the field checks shared by request DTOs.
package validator

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the YYYY-MM-DD form accepted in query parameters.
const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is returned by every DTO Validate method and mapped to 422.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

// ToMap keys messages by field; a later message for the same field wins.
func (v ValidationErrors) ToMap() map[string]string {
	m := make(map[string]string, len(v))
	for _, e := range v {
		m[e.Field] = e.Message
	}
	return m
}

var (
	emailPattern        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	employeeCodePattern = regexp.MustCompile(`^[A-Z]{3}\d{3,}$`)
)

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidUUID accepts only the canonical 36-character form.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	return uuid.Validate(id) == nil
}

// IsValidEmployeeCode matches three capital letters and at least three
// digits, e.g. EMP001 or MGR001.
func IsValidEmployeeCode(code string) bool {
	return employeeCodePattern.MatchString(code)
}

// IsOneOf reports whether value is among allowed.
func IsOneOf(value string, allowed ...string) bool {
	return slices.Contains(allowed, value)
}

// Date is a calendar day parsed from DateLayout, at UTC midnight.
type Date time.Time

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date(t), nil
}

func (d Date) Before(u Date) bool {
	return time.Time(d).Before(time.Time(u))
}
