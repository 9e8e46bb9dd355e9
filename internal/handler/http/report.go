package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	MySummary(w http.ResponseWriter, r *http.Request)
	TeamSummary(w http.ResponseWriter, r *http.Request)
	TodayStatus(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// MySummary handles GET /attendance/my-summary
func (h *reportHandlerImpl) MySummary(w http.ResponseWriter, r *http.Request) {
	q, ok := parseMonthQuery(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GetMySummary(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TeamSummary handles GET /attendance/summary
func (h *reportHandlerImpl) TeamSummary(w http.ResponseWriter, r *http.Request) {
	q, ok := parseMonthQuery(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GetTeamSummary(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TodayStatus handles GET /attendance/today-status
func (h *reportHandlerImpl) TodayStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetTodayStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /attendance/export?format=csv|xlsx
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := report.ExportRequest{
		Format:     query.Get("format"),
		EmployeeID: optionalQuery(query.Get("employee_id")),
		StartDate:  optionalQuery(query.Get("start_date")),
		EndDate:    optionalQuery(query.Get("end_date")),
	}

	file, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("attendance export generated", "filename", file.Filename, "bytes", len(file.Content))
	response.File(w, file.Filename, file.ContentType, file.Content)
}
