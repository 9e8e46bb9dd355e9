package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_Lifecycle(t *testing.T) {
	db := requireDB(t)
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, users, "EMP001", "a@example.com", "Engineering", user.RoleEmployee)

	checkIn := time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC)
	day := timewindow.Day(checkIn)

	created, err := repo.Create(ctx, attendance.Attendance{
		UserID:      alice.ID,
		Date:        day.Start,
		CheckInTime: &checkIn,
		Status:      attendance.StatusLate,
	})
	require.NoError(t, err)

	found, err := repo.FindByUserAndWindow(ctx, alice.ID, day.Start, day.End)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, attendance.StatusLate, found.Status)

	// duplicate day
	_, err = repo.Create(ctx, attendance.Attendance{UserID: alice.ID, Date: day.Start, Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrDuplicateAttendance)

	checkOut := checkIn.Add(8*time.Hour + 30*time.Minute)
	closed, err := repo.RecordCheckOut(ctx, created.ID, checkOut, 8.5)
	require.NoError(t, err)
	assert.Equal(t, 8.5, closed.TotalHours)
	require.NotNil(t, closed.CheckOutTime)

	_, err = repo.RecordCheckOut(ctx, created.ID, checkOut.Add(time.Hour), 9.5)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	missing, err := repo.FindByUserAndWindow(ctx, alice.ID, day.Start.AddDate(0, 0, 1), day.End.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_CheckInOnAbsentRecord(t *testing.T) {
	db := requireDB(t)
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, users, "EMP001", "a@example.com", "Engineering", user.RoleEmployee)
	day := timewindow.Day(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))

	n, err := repo.BulkCreateAbsences(ctx, []string{alice.ID}, day.Start)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// existing rows are skipped
	n, err = repo.BulkCreateAbsences(ctx, []string{alice.ID}, day.Start)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	absent, err := repo.FindByUserAndWindow(ctx, alice.ID, day.Start, day.End)
	require.NoError(t, err)
	require.NotNil(t, absent)
	assert.Equal(t, attendance.StatusAbsent, absent.Status)

	at := day.Start.Add(8 * time.Hour)
	updated, err := repo.RecordCheckIn(ctx, absent.ID, at, attendance.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, updated.Status)

	_, err = repo.RecordCheckIn(ctx, absent.ID, at, attendance.StatusPresent)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceRepository_ConcurrentCreate(t *testing.T) {
	db := requireDB(t)
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, users, "EMP001", "a@example.com", "Engineering", user.RoleEmployee)
	day := timewindow.Day(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, attendance.Attendance{UserID: alice.ID, Date: day.Start, Status: attendance.StatusPresent})
		}()
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, attendance.ErrDuplicateAttendance):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)
}

func TestAttendanceRepository_ListFilters(t *testing.T) {
	db := requireDB(t)
	users := postgresql.NewUserRepository(db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, users, "EMP001", "a@example.com", "Engineering", user.RoleEmployee)
	bob := createTestUser(t, users, "EMP002", "b@example.com", "Ops", user.RoleEmployee)

	base := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		_, err := repo.Create(ctx, attendance.Attendance{UserID: alice.ID, Date: base.AddDate(0, 0, i), Status: attendance.StatusPresent})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, attendance.Attendance{UserID: bob.ID, Date: base, Status: attendance.StatusLate})
	require.NoError(t, err)

	all, err := repo.List(ctx, attendance.Query{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, !all[0].Date.Before(all[len(all)-1].Date), "newest first")
	require.NotNil(t, all[0].EmployeeCode)

	late := attendance.StatusLate
	lateOnly, err := repo.List(ctx, attendance.Query{Status: &late})
	require.NoError(t, err)
	require.Len(t, lateOnly, 1)
	assert.Equal(t, "Ops", *lateOnly[0].Department)

	from, to := base.AddDate(0, 0, 1), timewindow.EndOfDay(base.AddDate(0, 0, 2))
	ranged, err := repo.List(ctx, attendance.Query{UserID: &alice.ID, From: &from, To: &to, Ascending: true})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.True(t, ranged[0].Date.Before(ranged[1].Date))

	limited, err := repo.List(ctx, attendance.Query{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	count, err := repo.Count(ctx, attendance.Query{UserID: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
