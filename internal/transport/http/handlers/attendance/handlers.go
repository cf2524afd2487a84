package attendancehandler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"hradmin/internal/domain/attendance"
	"hradmin/internal/domain/auth"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Perms   middleware.PolicyStore
}

func NewHandler(service *attendance.Service, perms middleware.PolicyStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendances", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAttendanceMarkOwn, h.Perms)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceMarkOwn, h.Perms)).Post("/check-out", h.handleCheckOut)
		r.Get("/my", h.handleMy)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/employee/{employeeID}", h.handleByEmployee)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/date/{date}", h.handleByDate)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/report/monthly/{employeeID}", h.handleMonthlyReport)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/report/monthly/{employeeID}/export.pdf", h.handleMonthlyReportPDF)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/summary/daily", h.handleDailySummary)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Put("/{attendanceID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Delete("/{attendanceID}", h.handleDelete)
	})
}

type markRequest struct {
	EmployeeID int64  `json:"employeeId"`
	Time       string `json:"time"`
}

func (h *Handler) parseMark(w http.ResponseWriter, r *http.Request) (int64, *time.Time, bool) {
	reqID := middleware.GetRequestID(r.Context())

	var payload markRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return 0, nil, false
	}

	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return 0, nil, false
	}
	employeeID := payload.EmployeeID
	if employeeID == 0 && caller.EmployeeID != nil {
		employeeID = *caller.EmployeeID
	}
	if employeeID <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", reqID)
		return 0, nil, false
	}
	if !auth.CanAccessEmployee(caller, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only mark your own attendance", reqID)
		return 0, nil, false
	}

	var at *time.Time
	if payload.Time != "" {
		parsed, err := time.Parse(time.RFC3339, payload.Time)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "time must be RFC3339", reqID)
			return 0, nil, false
		}
		at = &parsed
	}
	return employeeID, at, true
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, at, ok := h.parseMark(w, r)
	if !ok {
		return
	}

	record, err := h.Service.CheckIn(r.Context(), employeeID, at)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, record, reqID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, at, ok := h.parseMark(w, r)
	if !ok {
		return
	}

	record, err := h.Service.CheckOut(r.Context(), employeeID, at)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	records, err := h.Service.Store.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, records, reqID)
}

type manualRequest struct {
	EmployeeID   int64  `json:"employeeId"`
	Date         string `json:"date"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload manualRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.EmployeeID <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", reqID)
		return
	}
	day, err := shared.ParseDate(payload.Date)
	if err != nil || payload.Date == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "date must be YYYY-MM-DD", reqID)
		return
	}
	checkIn, err := parseOptionalTime(payload.CheckInTime)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "checkInTime must be RFC3339", reqID)
		return
	}
	checkOut, err := parseOptionalTime(payload.CheckOutTime)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "checkOutTime must be RFC3339", reqID)
		return
	}

	record, err := h.Service.Store.Create(r.Context(), payload.EmployeeID, day, checkIn, checkOut, payload.Status, payload.Notes)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, record, reqID)
}

func parseRange(r *http.Request) (attendance.RangeFilter, error) {
	var filter attendance.RangeFilter
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &parsed
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &parsed
	}
	return filter, nil
}

func (h *Handler) handleMy(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if caller.EmployeeID == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
		return
	}

	filter, err := parseRange(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "dates must be YYYY-MM-DD", reqID)
		return
	}
	page := shared.ParsePagination(r, 100, 500)

	records, err := h.Service.Store.ByEmployee(r.Context(), *caller.EmployeeID, filter, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleByEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "employeeID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", reqID)
		return
	}

	filter, err := parseRange(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "dates must be YYYY-MM-DD", reqID)
		return
	}
	page := shared.ParsePagination(r, 100, 500)

	records, err := h.Service.Store.ByEmployee(r.Context(), id, filter, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleByDate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	day, err := shared.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", reqID)
		return
	}

	var departmentID *int64
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "department_id must be a positive integer", reqID)
			return
		}
		departmentID = &id
	}
	page := shared.ParsePagination(r, 100, 500)

	records, err := h.Service.Store.ByDate(r.Context(), day, departmentID, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) monthlyReport(w http.ResponseWriter, r *http.Request) (attendance.MonthlyReport, bool) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "employeeID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", reqID)
		return attendance.MonthlyReport{}, false
	}

	q := r.URL.Query()
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "month is required", reqID)
		return attendance.MonthlyReport{}, false
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 2000 {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "year is required", reqID)
		return attendance.MonthlyReport{}, false
	}

	report, err := h.Service.Store.MonthlyReport(r.Context(), id, month, year)
	if err != nil {
		api.FromError(w, err, reqID)
		return attendance.MonthlyReport{}, false
	}
	return report, true
}

func (h *Handler) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.monthlyReport(w, r)
	if !ok {
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMonthlyReportPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	report, ok := h.monthlyReport(w, r)
	if !ok {
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Attendance Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", report.EmployeeName, report.EmployeeCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %04d-%02d", report.Year, report.Month))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Recorded days: %d", report.TotalDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Present: %d   Late: %d   Absent: %d   Half days: %d",
		report.PresentDays, report.LateDays, report.AbsentDays, report.HalfDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total working hours: %.2f", report.WorkingHours))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(30, 8, "Date")
	pdf.Cell(30, 8, "Check-in")
	pdf.Cell(30, 8, "Check-out")
	pdf.Cell(30, 8, "Status")
	pdf.Cell(25, 8, "Hours")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, rec := range report.Attendances {
		clock := func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return t.Format("15:04")
		}
		hours := "-"
		if rec.WorkingHours != nil {
			hours = fmt.Sprintf("%.2f", *rec.WorkingHours)
		}
		pdf.Cell(30, 7, rec.Date.Format("2006-01-02"))
		pdf.Cell(30, 7, clock(rec.CheckInTime))
		pdf.Cell(30, 7, clock(rec.CheckOutTime))
		pdf.Cell(30, 7, rec.Status)
		pdf.Cell(25, 7, hours)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		api.FromError(w, err, reqID)
		return
	}

	filename := fmt.Sprintf("attendance-%s-%04d-%02d.pdf", report.EmployeeCode, report.Year, report.Month)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "date must be YYYY-MM-DD", reqID)
			return
		}
		day = parsed
	}

	var departmentID *int64
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "department_id must be a positive integer", reqID)
			return
		}
		departmentID = &id
	}

	summary, err := h.Service.Store.DailySummary(r.Context(), day, departmentID)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "attendanceID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid attendance id", reqID)
		return
	}

	var payload manualRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	checkIn, err := parseOptionalTime(payload.CheckInTime)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "checkInTime must be RFC3339", reqID)
		return
	}
	checkOut, err := parseOptionalTime(payload.CheckOutTime)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "checkOutTime must be RFC3339", reqID)
		return
	}

	record, err := h.Service.Store.Update(r.Context(), id, checkIn, checkOut, payload.Status, payload.Notes)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "attendanceID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid attendance id", reqID)
		return
	}
	if err := h.Service.Store.Delete(r.Context(), id); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
