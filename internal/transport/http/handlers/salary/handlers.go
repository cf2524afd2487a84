package salaryhandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/salary"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Service *salary.Service
	Perms   middleware.PolicyStore
}

func NewHandler(service *salary.Service, perms middleware.PolicyStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salaries", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSalariesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSalariesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/statistics", h.handleStatistics)
		r.With(middleware.RequirePermission(auth.PermSalariesRead, h.Perms)).Get("/employee/{employeeID}", h.handleByEmployee)
		r.With(middleware.RequirePermission(auth.PermSalariesRead, h.Perms)).Get("/employee/{employeeID}/current", h.handleCurrent)
		r.With(middleware.RequirePermission(auth.PermSalariesRead, h.Perms)).Get("/employee/{employeeID}/history", h.handleHistory)
		r.With(middleware.RequirePermission(auth.PermSalariesWrite, h.Perms)).Post("/employee/{employeeID}/update-current", h.handleUpdateCurrent)
		r.With(middleware.RequirePermission(auth.PermSalariesWrite, h.Perms)).Delete("/{salaryID}", h.handleDelete)
	})
}

// ownEmployee resolves the path employee id and enforces that plain
// employees only touch their own records.
func ownEmployee(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, param))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", reqID)
		return 0, false
	}
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return 0, false
	}
	if !auth.CanAccessEmployee(caller, id) {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only access your own records", reqID)
		return 0, false
	}
	return id, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var employeeID *int64
	if raw := r.URL.Query().Get("employee_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "employee_id must be a positive integer", reqID)
			return
		}
		employeeID = &id
	}
	// Plain employees only ever see their own rows.
	if caller.Role == auth.RoleEmployee {
		if caller.EmployeeID == nil {
			api.Fail(w, http.StatusNotFound, "not_found", "no employee record linked to this account", reqID)
			return
		}
		if employeeID != nil && *employeeID != *caller.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "you can only access your own records", reqID)
			return
		}
		employeeID = caller.EmployeeID
	}

	rows, err := h.Service.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, rows, reqID)
}

type createRequest struct {
	EmployeeID    int64   `json:"employeeId"`
	BaseSalary    float64 `json:"baseSalary"`
	EffectiveFrom string  `json:"effectiveFrom"`
	EffectiveTo   string  `json:"effectiveTo"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.EmployeeID <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", reqID)
		return
	}
	from, err := shared.ParseDate(payload.EffectiveFrom)
	if err != nil || payload.EffectiveFrom == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "effectiveFrom must be YYYY-MM-DD", reqID)
		return
	}
	var to *time.Time
	if payload.EffectiveTo != "" {
		parsed, err := shared.ParseDate(payload.EffectiveTo)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "effectiveTo must be YYYY-MM-DD", reqID)
			return
		}
		to = &parsed
	}

	created, err := h.Service.Create(r.Context(), payload.EmployeeID, payload.BaseSalary, from, to)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var departmentID *int64
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "department_id must be a positive integer", reqID)
			return
		}
		departmentID = &id
	}

	stats, err := h.Service.Statistics(r.Context(), departmentID)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, stats, reqID)
}

func (h *Handler) handleByEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := ownEmployee(w, r, "employeeID")
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 100, 500)

	rows, err := h.Service.List(r.Context(), &id, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := ownEmployee(w, r, "employeeID")
	if !ok {
		return
	}

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of_date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "as_of_date must be YYYY-MM-DD", reqID)
			return
		}
		asOf = parsed
	}

	current, err := h.Service.Current(r.Context(), id, asOf)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, current, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := ownEmployee(w, r, "employeeID")
	if !ok {
		return
	}

	history, err := h.Service.History(r.Context(), id, time.Now())
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, history, reqID)
}

type updateCurrentRequest struct {
	NewSalary     float64 `json:"newSalary"`
	EffectiveFrom string  `json:"effectiveFrom"`
}

func (h *Handler) handleUpdateCurrent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "employeeID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", reqID)
		return
	}

	var payload updateCurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	from := time.Now().Truncate(24 * time.Hour)
	if payload.EffectiveFrom != "" {
		parsed, err := shared.ParseDate(payload.EffectiveFrom)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "effectiveFrom must be YYYY-MM-DD", reqID)
			return
		}
		from = parsed
	}

	created, err := h.Service.ReplaceCurrent(r.Context(), id, payload.NewSalary, from)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, created, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "salaryID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid salary id", reqID)
		return
	}

	caller, ok := middleware.GetUser(r.Context())
	if !ok || caller.Role != auth.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin role required", reqID)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
