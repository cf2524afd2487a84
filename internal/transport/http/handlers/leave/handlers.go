package leavehandler

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/leave"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Perms   middleware.PolicyStore
}

func NewHandler(service *leave.Service, perms middleware.PolicyStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeavesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeavesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLeavesApprove, h.Perms)).Get("/pending", h.handlePending)
		r.Get("/my-leaves", h.handleMyLeaves)
		r.With(middleware.RequirePermission(auth.PermLeavesRead, h.Perms)).Get("/balance/{employeeID}", h.handleBalance)
		r.With(middleware.RequirePermission(auth.PermLeavesApprove, h.Perms)).Get("/statistics/monthly", h.handleMonthlyStatistics)
		r.With(middleware.RequirePermission(auth.PermLeavesRead, h.Perms)).Get("/calendar/{date}", h.handleCalendar)
		r.With(middleware.RequirePermission(auth.PermLeavesRead, h.Perms)).Get("/calendar/{date}/export.csv", h.handleCalendarCSV)
		r.With(middleware.RequirePermission(auth.PermLeavesRead, h.Perms)).Get("/{leaveID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeavesWrite, h.Perms)).Put("/{leaveID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermLeavesApprove, h.Perms)).Post("/{leaveID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeavesApprove, h.Perms)).Post("/{leaveID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermLeavesWrite, h.Perms)).Post("/{leaveID}/cancel", h.handleCancel)
		r.With(middleware.RequirePermission(auth.PermLeavesWrite, h.Perms)).Delete("/{leaveID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	page := shared.ParsePagination(r, 100, 500)
	q := r.URL.Query()

	filter := leave.ListFilter{
		Status:    q.Get("status"),
		LeaveType: q.Get("leave_type"),
	}
	if raw := q.Get("employee_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "employee_id must be a positive integer", reqID)
			return
		}
		filter.EmployeeID = &id
	}
	if raw := q.Get("start_date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "start_date must be YYYY-MM-DD", reqID)
			return
		}
		filter.StartDate = &parsed
	}
	if raw := q.Get("end_date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "end_date must be YYYY-MM-DD", reqID)
			return
		}
		filter.EndDate = &parsed
	}

	// Plain employees only ever see their own requests.
	if caller.Role == auth.RoleEmployee {
		if caller.EmployeeID == nil {
			api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
			return
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != *caller.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "you can only access your own records", reqID)
			return
		}
		filter.EmployeeID = caller.EmployeeID
	}

	leaves, total, err := h.Service.Store.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"leaves": leaves, "total": total}, reqID)
}

type leavePayload struct {
	EmployeeID int64  `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	LeaveType  string `json:"leaveType"`
	Reason     string `json:"reason"`
}

func (h *Handler) parsePayload(w http.ResponseWriter, r *http.Request) (leavePayload, time.Time, time.Time, bool) {
	reqID := middleware.GetRequestID(r.Context())

	var payload leavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return payload, time.Time{}, time.Time{}, false
	}
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil || payload.StartDate == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "startDate must be YYYY-MM-DD", reqID)
		return payload, time.Time{}, time.Time{}, false
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil || payload.EndDate == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "endDate must be YYYY-MM-DD", reqID)
		return payload, time.Time{}, time.Time{}, false
	}
	if payload.LeaveType == "" {
		payload.LeaveType = leave.TypeAnnual
	}
	return payload, start, end, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	payload, start, end, ok := h.parsePayload(w, r)
	if !ok {
		return
	}
	employeeID := payload.EmployeeID
	if employeeID == 0 && caller.EmployeeID != nil {
		employeeID = *caller.EmployeeID
	}
	if employeeID <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", reqID)
		return
	}
	if !auth.CanAccessEmployee(caller, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only request leave for yourself", reqID)
		return
	}

	created, err := h.Service.Store.Create(r.Context(), employeeID, payload.LeaveType, start, end, payload.Reason)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	leaves, err := h.Service.Store.Pending(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, leaves, reqID)
}

func (h *Handler) handleMyLeaves(w http.ResponseWriter, r *http.Request) {
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
	page := shared.ParsePagination(r, 100, 500)

	leaves, total, err := h.Service.Store.List(r.Context(), leave.ListFilter{
		EmployeeID: caller.EmployeeID,
		Status:     r.URL.Query().Get("status"),
	}, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"leaves": leaves, "total": total}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "leaveID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	record, err := h.Service.Store.Get(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	if !auth.CanAccessEmployee(caller, record.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only access your own records", reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "leaveID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	existing, err := h.Service.Store.Get(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	if !auth.CanAccessEmployee(caller, existing.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only edit your own requests", reqID)
		return
	}

	payload, start, end, ok := h.parsePayload(w, r)
	if !ok {
		return
	}

	updated, err := h.Service.Store.Update(r.Context(), id, payload.LeaveType, start, end, payload.Reason)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "leaveID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var updated leave.Leave
	var err error
	if approve {
		updated, err = h.Service.Approve(r.Context(), id, caller.UserID)
	} else {
		updated, err = h.Service.Reject(r.Context(), id, caller.UserID)
	}
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "leaveID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	existing, err := h.Service.Store.Get(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	// Approval rights do not include cancellation; only the requester
	// or an admin may withdraw a leave.
	if !auth.IsOwnerOrAdmin(caller, existing.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "only the requesting employee or an admin can cancel a leave", reqID)
		return
	}

	updated, err := h.Service.Cancel(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "employeeID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", reqID)
		return
	}
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if !auth.CanAccessEmployee(caller, id) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only view your own balance", reqID)
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "year must be a four digit year", reqID)
			return
		}
		year = parsed
	}

	balance, err := h.Service.Balance(r.Context(), id, year)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, balance, reqID)
}

func (h *Handler) handleMonthlyStatistics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "month is required", reqID)
		return
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 2000 {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "year is required", reqID)
		return
	}

	var departmentID *int64
	if raw := q.Get("department_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "department_id must be a positive integer", reqID)
			return
		}
		departmentID = &id
	}

	stats, err := h.Service.Store.MonthlyStatistics(r.Context(), month, year, departmentID)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, stats, reqID)
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) (leave.Calendar, bool) {
	reqID := middleware.GetRequestID(r.Context())
	day, err := shared.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", reqID)
		return leave.Calendar{}, false
	}

	var departmentID *int64
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "department_id must be a positive integer", reqID)
			return leave.Calendar{}, false
		}
		departmentID = &id
	}

	cal, err := h.Service.Store.Calendar(r.Context(), day, departmentID)
	if err != nil {
		api.FromError(w, err, reqID)
		return leave.Calendar{}, false
	}
	return cal, true
}

func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.calendar(w, r)
	if !ok {
		return
	}
	api.Success(w, cal, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalendarCSV(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.calendar(w, r)
	if !ok {
		return
	}

	filename := "leave-calendar-" + cal.Date.Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"employee_code", "employee_name", "department", "leave_type", "status", "start_date", "end_date"})
	for _, l := range cal.Leaves {
		_ = writer.Write([]string{
			l.EmployeeCode,
			l.EmployeeName,
			l.DepartmentName,
			l.LeaveType,
			l.Status,
			l.StartDate.Format("2006-01-02"),
			l.EndDate.Format("2006-01-02"),
		})
	}
	writer.Flush()
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "leaveID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave id", reqID)
		return
	}

	caller, ok := middleware.GetUser(r.Context())
	if !ok || caller.Role != auth.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin role required", reqID)
		return
	}

	if err := h.Service.Store.Delete(r.Context(), id); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
