package employeehandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/employee"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Store *employee.Store
	Perms middleware.PolicyStore
}

func NewHandler(store *employee.Store, perms middleware.PolicyStore) *Handler {
	return &Handler{Store: store, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/search/{query}", h.handleSearch)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{employeeID}", h.handleDelete)
	})
}

type employeePayload struct {
	EmployeeCode string  `json:"employeeCode"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	HireDate     string  `json:"hireDate"`
	DepartmentID *int64  `json:"departmentId"`
	PositionID   *int64  `json:"positionId"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	page := shared.ParsePagination(r, 100, 500)

	var filter employee.ListFilter
	if raw := q.Get("department_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "department_id must be a positive integer", reqID)
			return
		}
		filter.DepartmentID = &id
	}
	if raw := q.Get("position_id"); raw != "" {
		id, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "position_id must be a positive integer", reqID)
			return
		}
		filter.PositionID = &id
	}

	employees, err := h.Store.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.FullName = strings.TrimSpace(payload.FullName)
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.FullName == "" || payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "fullName and email are required", reqID)
		return
	}

	in := employee.CreateInput{
		EmployeeCode: payload.EmployeeCode,
		FullName:     payload.FullName,
		Email:        payload.Email,
		Phone:        payload.Phone,
		DepartmentID: payload.DepartmentID,
		PositionID:   payload.PositionID,
	}
	if payload.HireDate != "" {
		hireDate, err := shared.ParseDate(payload.HireDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "hireDate must be YYYY-MM-DD", reqID)
			return
		}
		in.HireDate = &hireDate
	}

	if payload.Password != "" {
		role := payload.Role
		if role == "" {
			role = auth.RoleEmployee
		}
		if !auth.ValidRole(role) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown role "+role, reqID)
			return
		}
		if len(payload.Password) < 8 {
			api.Fail(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters", reqID)
			return
		}
		hash, err := auth.HashPassword(payload.Password)
		if err != nil {
			api.FromError(w, err, reqID)
			return
		}
		in.UserPasswordHash = hash
		in.UserRole = role
	}

	created, err := h.Store.Create(r.Context(), in)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
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

	record, err := h.Store.Get(r.Context(), *caller.EmployeeID)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	term := strings.TrimSpace(chi.URLParam(r, "query"))
	if term == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_query", "search term is required", reqID)
		return
	}
	page := shared.ParsePagination(r, 100, 500)

	employees, err := h.Store.Search(r.Context(), term, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "employeeID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", reqID)
		return
	}

	record, err := h.Store.Get(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "employeeID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", reqID)
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.FullName = strings.TrimSpace(payload.FullName)
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.FullName == "" || payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "fullName and email are required", reqID)
		return
	}

	in := employee.UpdateInput{
		FullName:     payload.FullName,
		Email:        payload.Email,
		Phone:        payload.Phone,
		DepartmentID: payload.DepartmentID,
		PositionID:   payload.PositionID,
	}
	if payload.HireDate != "" {
		hireDate, err := shared.ParseDate(payload.HireDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "hireDate must be YYYY-MM-DD", reqID)
			return
		}
		in.HireDate = &hireDate
	}

	updated, err := h.Store.Update(r.Context(), id, in)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "employeeID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", reqID)
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
