package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.CheckIn(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.CheckOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyHistory handles GET /attendance/my-history?month=&year=
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	q, ok := parseMonthQuery(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetMyHistory(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{Count: len(result)})
}

// List handles GET /attendance/all
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.AttendanceFilter{
		EmployeeID: optionalQuery(query.Get("employee_id")),
		StartDate:  optionalQuery(query.Get("start_date")),
		EndDate:    optionalQuery(query.Get("end_date")),
		Status:     optionalQuery(query.Get("status")),
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{Count: len(result)})
}

// GetEmployee handles GET /attendance/employee/{id}
func (h *attendanceHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	query := r.URL.Query()
	filter := attendance.DateRangeFilter{
		StartDate: optionalQuery(query.Get("start_date")),
		EndDate:   optionalQuery(query.Get("end_date")),
	}

	result, err := h.attendanceService.GetEmployeeAttendance(r.Context(), userID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{Count: len(result)})
}

// parseMonthQuery reads optional month and year parameters. It writes a 400
// and returns false when either is not a number.
func parseMonthQuery(w http.ResponseWriter, r *http.Request) (attendance.MonthQuery, bool) {
	var q attendance.MonthQuery
	var err error

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		if q.Month, err = strconv.Atoi(monthStr); err != nil {
			response.BadRequest(w, "invalid month parameter", nil)
			return q, false
		}
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		if q.Year, err = strconv.Atoi(yearStr); err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return q, false
		}
	}

	return q, true
}

func optionalQuery(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
