package user

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	employeeIDPrefix       = "EMP"
	maxEmployeeIDAttempts  = 10
	fallbackEmployeeDigits = 6
)

// SequentialEmployeeID formats the n-th employee code, e.g. EMP001.
func SequentialEmployeeID(n int64) string {
	return fmt.Sprintf("%s%03d", employeeIDPrefix, n)
}

// FallbackEmployeeID derives a code from the last six digits of the unix
// millisecond timestamp.
func FallbackEmployeeID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > fallbackEmployeeDigits {
		ms = ms[len(ms)-fallbackEmployeeDigits:]
	}
	return employeeIDPrefix + ms
}

// GenerateEmployeeID picks the next free sequential code from the user count.
// When the candidate is taken on every attempt it falls back to a
// timestamp-derived code.
func GenerateEmployeeID(ctx context.Context, repo UserRepository, now func() time.Time) (string, error) {
	for attempt := 0; attempt < maxEmployeeIDAttempts; attempt++ {
		count, err := repo.CountAll(ctx)
		if err != nil {
			return "", fmt.Errorf("count users: %w", err)
		}

		candidate := SequentialEmployeeID(count + 1 + int64(attempt))
		exists, err := repo.ExistsByEmployeeID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check employee id %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return FallbackEmployeeID(now()), nil
}
