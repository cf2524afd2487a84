package orghandler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/org"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Store *org.Store
	Perms middleware.PolicyStore
}

func NewHandler(store *org.Store, perms middleware.PolicyStore) *Handler {
	return &Handler{Store: store, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/search", h.handleSearch)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Post("/compare", h.handleCompare)
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/list/with-counts", h.handleListWithCounts)
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/{departmentID}", h.handleGetDepartment)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Put("/{departmentID}", h.handleUpdateDepartment)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Delete("/{departmentID}", h.handleDeleteDepartment)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/{departmentID}/statistics", h.handleStatistics)
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/{departmentID}/employees", h.handleDepartmentEmployees)
	})

	r.Route("/positions", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListPositions)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreatePosition)
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/{positionID}", h.handleGetPosition)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Put("/{positionID}", h.handleUpdatePosition)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Delete("/{positionID}", h.handleDeletePosition)
	})
}

type departmentPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	departments, err := h.Store.ListDepartments(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, departments, reqID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	created, err := h.Store.CreateDepartment(r.Context(), payload.Name, payload.Description)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "departmentID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid department id", reqID)
		return
	}

	department, err := h.Store.GetDepartment(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, department, reqID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "departmentID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid department id", reqID)
		return
	}

	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	updated, err := h.Store.UpdateDepartment(r.Context(), id, payload.Name, payload.Description)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "departmentID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid department id", reqID)
		return
	}
	if err := h.Store.DeleteDepartment(r.Context(), id); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleListWithCounts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	departments, err := h.Store.ListWithCounts(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, departments, reqID)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	page := shared.ParsePagination(r, 100, 500)

	filter := org.SearchFilter{
		Name:   q.Get("name"),
		SortBy: q.Get("sort_by"),
		Order:  q.Get("order"),
		Skip:   page.Offset,
		Limit:  page.Limit,
	}
	if raw := q.Get("min_employees"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "min_employees must be a non-negative integer", reqID)
			return
		}
		filter.MinEmployees = &v
	}
	if raw := q.Get("max_employees"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "max_employees must be a non-negative integer", reqID)
			return
		}
		filter.MaxEmployees = &v
	}
	if raw := q.Get("min_avg_salary"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "min_avg_salary must be a non-negative number", reqID)
			return
		}
		filter.MinAvgSalary = &v
	}
	if raw := q.Get("max_avg_salary"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "max_avg_salary must be a non-negative number", reqID)
			return
		}
		filter.MaxAvgSalary = &v
	}

	results, err := h.Store.Search(r.Context(), filter)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, results, reqID)
}

type compareRequest struct {
	DepartmentIDs []int64 `json:"departmentIds"`
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload compareRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if len(payload.DepartmentIDs) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "departmentIds must not be empty", reqID)
		return
	}

	comparison, err := h.Store.CompareDepartments(r.Context(), payload.DepartmentIDs)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, comparison, reqID)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "departmentID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid department id", reqID)
		return
	}

	stats, err := h.Store.DepartmentStatistics(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, stats, reqID)
}

func (h *Handler) handleDepartmentEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "departmentID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid department id", reqID)
		return
	}

	q := r.URL.Query()
	page := 1
	pageSize := 10
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := q.Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	var positionID *int64
	if raw := q.Get("position_id"); raw != "" {
		v, ok := shared.ParseID(raw)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", "position_id must be a positive integer", reqID)
			return
		}
		positionID = &v
	}

	result, err := h.Store.DepartmentEmployees(r.Context(), id, page, pageSize, q.Get("sort_by"), q.Get("order"), positionID)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, result, reqID)
}

type positionPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	positions, err := h.Store.ListPositions(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, positions, reqID)
}

func (h *Handler) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload positionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	created, err := h.Store.CreatePosition(r.Context(), payload.Title, payload.Description)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "positionID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid position id", reqID)
		return
	}

	position, err := h.Store.GetPosition(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, position, reqID)
}

func (h *Handler) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "positionID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid position id", reqID)
		return
	}

	var payload positionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	updated, err := h.Store.UpdatePosition(r.Context(), id, payload.Title, payload.Description)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "positionID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid position id", reqID)
		return
	}
	if err := h.Store.DeletePosition(r.Context(), id); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
