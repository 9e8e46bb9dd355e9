package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt/jwttest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/oauth"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var (
	employeeUser = user.User{
		ID:         "0190a1b2-0000-7000-8000-000000000001",
		Name:       "Alice",
		Email:      "alice@example.com",
		Role:       user.RoleEmployee,
		EmployeeID: "EMP001",
		Department: "Engineering",
	}
	managerUser = user.User{
		ID:         "0190a1b2-0000-7000-8000-000000000009",
		Name:       "Maya",
		Email:      "maya@example.com",
		Role:       user.RoleManager,
		EmployeeID: "MGR001",
		Department: "Management",
	}
)

type fakeAuthService struct {
	register        func(auth.RegisterRequest) (auth.TokenResponse, error)
	login           func(auth.LoginRequest) (auth.TokenResponse, error)
	loginWithGoogle func(email, googleID string) (auth.TokenResponse, error)
	logout          func(refreshToken string) error
	refresh         func(auth.RefreshTokenRequest) (auth.AccessTokenResponse, error)
	me              func(ctx context.Context) (user.UserResponse, error)
}

func (f *fakeAuthService) Register(_ context.Context, req auth.RegisterRequest, _ auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return f.register(req)
}

func (f *fakeAuthService) Login(_ context.Context, req auth.LoginRequest, _ auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return f.login(req)
}

func (f *fakeAuthService) LoginWithGoogle(_ context.Context, email string, googleID string, _ auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return f.loginWithGoogle(email, googleID)
}

func (f *fakeAuthService) Logout(_ context.Context, refreshToken string) error {
	return f.logout(refreshToken)
}

func (f *fakeAuthService) RefreshToken(_ context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	return f.refresh(req)
}

func (f *fakeAuthService) Me(ctx context.Context) (user.UserResponse, error) {
	return f.me(ctx)
}

type fakeAttendanceService struct {
	checkIn     func(ctx context.Context) (attendance.AttendanceResponse, error)
	checkOut    func(ctx context.Context) (attendance.AttendanceResponse, error)
	today       func(ctx context.Context) (attendance.TodayResponse, error)
	history     func(q attendance.MonthQuery) ([]attendance.AttendanceResponse, error)
	list        func(f attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error)
	getEmployee func(userID string, f attendance.DateRangeFilter) ([]attendance.AttendanceResponse, error)
}

func (f *fakeAttendanceService) CheckIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	return f.checkIn(ctx)
}

func (f *fakeAttendanceService) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	return f.checkOut(ctx)
}

func (f *fakeAttendanceService) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	return f.today(ctx)
}

func (f *fakeAttendanceService) GetMyHistory(_ context.Context, q attendance.MonthQuery) ([]attendance.AttendanceResponse, error) {
	return f.history(q)
}

func (f *fakeAttendanceService) ListAttendance(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	return f.list(filter)
}

func (f *fakeAttendanceService) GetEmployeeAttendance(_ context.Context, userID string, filter attendance.DateRangeFilter) ([]attendance.AttendanceResponse, error) {
	return f.getEmployee(userID, filter)
}

type fakeDashboardService struct {
	employee func(ctx context.Context) (*dashboard.EmployeeDashboardResponse, error)
	manager  func(ctx context.Context) (*dashboard.ManagerDashboardResponse, error)
}

func (f *fakeDashboardService) GetEmployeeDashboard(ctx context.Context) (*dashboard.EmployeeDashboardResponse, error) {
	return f.employee(ctx)
}

func (f *fakeDashboardService) GetManagerDashboard(ctx context.Context) (*dashboard.ManagerDashboardResponse, error) {
	return f.manager(ctx)
}

type fakeReportService struct {
	mySummary   func(q attendance.MonthQuery) (report.PersonalSummary, error)
	teamSummary func(q attendance.MonthQuery) (report.TeamSummary, error)
	todayStatus func() (report.DayStatus, error)
	export      func(req report.ExportRequest) (report.ExportFile, error)
}

func (f *fakeReportService) GetMySummary(_ context.Context, q attendance.MonthQuery) (report.PersonalSummary, error) {
	return f.mySummary(q)
}

func (f *fakeReportService) GetTeamSummary(_ context.Context, q attendance.MonthQuery) (report.TeamSummary, error) {
	return f.teamSummary(q)
}

func (f *fakeReportService) GetTodayStatus(context.Context) (report.DayStatus, error) {
	return f.todayStatus()
}

func (f *fakeReportService) Export(_ context.Context, req report.ExportRequest) (report.ExportFile, error) {
	return f.export(req)
}

type fakeGoogleService struct {
	state    string
	token    *oauth2.Token
	tokenErr error
	info     oauth.GoogleInformation
}

func (f *fakeGoogleService) GenerateState() string { return f.state }

func (f *fakeGoogleService) RedirectURL(state string) string {
	return "https://accounts.example.test/auth?state=" + state
}

func (f *fakeGoogleService) VerifyToken(context.Context, string) (*oauth2.Token, error) {
	return f.token, f.tokenErr
}

func (f *fakeGoogleService) VerifyUser(context.Context, *oauth2.Token) (oauth.GoogleInformation, error) {
	return f.info, nil
}

type testServer struct {
	jwt        jwt.Service
	auth       *fakeAuthService
	attendance *fakeAttendanceService
	dashboard  *fakeDashboardService
	report     *fakeReportService
	google     *fakeGoogleService
	router     http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		jwt:        jwttest.NewService(),
		auth:       &fakeAuthService{},
		attendance: &fakeAttendanceService{},
		dashboard:  &fakeDashboardService{},
		report:     &fakeReportService{},
		google:     &fakeGoogleService{state: "state-123"},
	}
	s.router = NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		GoogleEnabled:  true,
	}, s.jwt, Handlers{
		Auth:       NewAuthHandler(s.jwt, s.auth, s.google, "http://localhost:3000", false),
		Attendance: NewAttendanceHandler(s.attendance),
		Dashboard:  NewDashboardHandler(s.dashboard),
		Report:     NewReportHandler(s.report),
	})
	return s
}

func (s *testServer) token(t *testing.T, u user.User) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(u)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, req *http.Request, as *user.User) *httptest.ResponseRecorder {
	t.Helper()
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, *as))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Count int `json:"count"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}
