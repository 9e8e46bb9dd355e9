package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt/jwttest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

var (
	alice = user.User{ID: "0190a1b2-0000-7000-8000-00000000000a", Name: "Alice", Email: "alice@example.com", Role: user.RoleEmployee, EmployeeID: "EMP001", Department: "Engineering"}
	bob   = user.User{ID: "0190a1b2-0000-7000-8000-00000000000b", Name: "Bob", Email: "bob@example.com", Role: user.RoleEmployee, EmployeeID: "EMP002", Department: "Ops"}
)

type fixture struct {
	now   time.Time
	repo  *memorytest.AttendanceRepository
	svc   attendance.AttendanceService
	users *memorytest.UserRepository
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{now: now}
	f.users = memorytest.NewUserRepository(alice, bob)
	f.repo = memorytest.NewAttendanceRepository(f.users)
	clock := timewindow.NewClockFunc(wib, func() time.Time { return f.now })
	f.svc = NewAttendanceService(f.repo, f.users, clock, Options{ExpectedCheckInHour: 9, ListLimit: 1000})
	return f
}

func TestCheckIn_OnTime(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 8, 55, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	resp, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, "2024-06-03", resp.Date)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "2024-06-03T08:55:00+07:00", *resp.CheckInTime)
}

func TestCheckIn_Late(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 9, 1, 0, 0, wib))

	resp, err := f.svc.CheckIn(jwttest.Context(t, alice))
	require.NoError(t, err)
	assert.Equal(t, "late", resp.Status)
}

func TestCheckIn_Twice(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 8, 0, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	first, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	_, err = f.svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// stored record untouched
	today, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, *first.CheckInTime, *today.CheckInTime)
	assert.Equal(t, "present", today.Status)
}

func TestCheckIn_NextDayStartsFresh(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 23, 50, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	f.now = time.Date(2024, 6, 4, 0, 10, 0, 0, wib)
	resp, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-04", resp.Date)
}

func TestCheckIn_OverAbsentRecord(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 10, 30, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	_, err := f.repo.BulkCreateAbsences(context.Background(), []string{alice.ID}, timewindow.StartOfDay(f.now))
	require.NoError(t, err)

	resp, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", resp.Status)

	records, err := f.repo.List(context.Background(), attendance.Query{UserID: &alice.ID})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCheckIn_ConcurrentRequestsYieldOneRecord(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 8, 30, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.CheckIn(ctx)
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, ok)

	count, err := f.repo.Count(context.Background(), attendance.Query{UserID: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCheckOut(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 9, 0, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	f.now = time.Date(2024, 6, 3, 17, 30, 0, 0, wib)
	resp, err := f.svc.CheckOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8.5, resp.TotalHours)
	assert.Equal(t, "present", resp.Status, "status is not touched by check-out")

	today, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.True(t, today.CheckedIn)
	assert.True(t, today.CheckedOut)
	assert.Equal(t, 8.5, today.TotalHours)
}

func TestCheckOut_Rejections(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 9, 0, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	_, err := f.svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	// explicit absent record without a check-in
	_, err = f.repo.BulkCreateAbsences(context.Background(), []string{alice.ID}, timewindow.StartOfDay(f.now))
	require.NoError(t, err)
	_, err = f.svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.svc.CheckIn(ctx)
	require.NoError(t, err)
	f.now = f.now.Add(4 * time.Hour)
	_, err = f.svc.CheckOut(ctx)
	require.NoError(t, err)

	_, err = f.svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOut_ClockBehindCheckIn(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 12, 0, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	f.now = f.now.Add(-time.Hour)
	_, err = f.svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
}

func TestGetToday_NoRecord(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 9, 0, 0, 0, wib))

	today, err := f.svc.GetToday(jwttest.Context(t, bob))
	require.NoError(t, err)
	assert.False(t, today.CheckedIn)
	assert.False(t, today.CheckedOut)
	assert.Equal(t, "absent", today.Status)
	assert.Nil(t, today.CheckInTime)
}

func TestGetMyHistory(t *testing.T) {
	f := newFixture(t, time.Date(2024, 5, 30, 8, 0, 0, 0, wib))
	ctx := jwttest.Context(t, alice)

	for _, day := range []int{30, 31} {
		f.now = time.Date(2024, 5, day, 8, 0, 0, 0, wib)
		_, err := f.svc.CheckIn(ctx)
		require.NoError(t, err)
	}
	f.now = time.Date(2024, 6, 3, 8, 0, 0, 0, wib)
	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	current, err := f.svc.GetMyHistory(ctx, attendance.MonthQuery{})
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "2024-06-03", current[0].Date)

	may, err := f.svc.GetMyHistory(ctx, attendance.MonthQuery{Month: 5, Year: 2024})
	require.NoError(t, err)
	require.Len(t, may, 2)
	assert.Equal(t, "2024-05-31", may[0].Date, "newest first")

	_, err = f.svc.GetMyHistory(ctx, attendance.MonthQuery{Month: 13, Year: 2024})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func seedDay(t *testing.T, f *fixture, u user.User, at time.Time) {
	t.Helper()
	f.now = at
	_, err := f.svc.CheckIn(jwttest.Context(t, u))
	require.NoError(t, err)
}

func TestListAttendance_Filters(t *testing.T) {
	f := newFixture(t, time.Time{})
	seedDay(t, f, alice, time.Date(2024, 6, 3, 8, 0, 0, 0, wib))
	seedDay(t, f, alice, time.Date(2024, 6, 4, 9, 30, 0, 0, wib))
	seedDay(t, f, bob, time.Date(2024, 6, 4, 8, 0, 0, 0, wib))

	ctx := context.Background()

	all, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	require.NotNil(t, all[0].Employee)

	code := "EMP001"
	mine, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{EmployeeID: &code})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	unknown := "EMP999"
	none, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{EmployeeID: &unknown})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	late := "late"
	lateOnly, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{Status: &late})
	require.NoError(t, err)
	require.Len(t, lateOnly, 1)
	assert.Equal(t, "2024-06-04", lateOnly[0].Date)

	day := "2024-06-04"
	oneDay, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{StartDate: &day, EndDate: &day})
	require.NoError(t, err)
	assert.Len(t, oneDay, 2)
}

func TestListAttendance_Limit(t *testing.T) {
	f := newFixture(t, time.Time{})
	clock := timewindow.NewClockFunc(wib, func() time.Time { return f.now })
	f.svc = NewAttendanceService(f.repo, f.users, clock, Options{ExpectedCheckInHour: 9, ListLimit: 2})

	for d := 1; d <= 3; d++ {
		seedDay(t, f, alice, time.Date(2024, 6, d, 8, 0, 0, 0, wib))
	}

	list, err := f.svc.ListAttendance(context.Background(), attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGetEmployeeAttendance(t *testing.T) {
	f := newFixture(t, time.Time{})
	seedDay(t, f, bob, time.Date(2024, 6, 3, 8, 0, 0, 0, wib))

	list, err := f.svc.GetEmployeeAttendance(context.Background(), bob.ID, attendance.DateRangeFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.GetEmployeeAttendance(context.Background(), "0190a1b2-0000-7000-8000-0000000000ff", attendance.DateRangeFilter{})
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)

	_, err = f.svc.GetEmployeeAttendance(context.Background(), "not-a-uuid", attendance.DateRangeFilter{})
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestCheckIn_RequiresClaims(t *testing.T) {
	f := newFixture(t, time.Date(2024, 6, 3, 8, 0, 0, 0, wib))
	_, err := f.svc.CheckIn(context.Background())
	assert.Error(t, err)
}
