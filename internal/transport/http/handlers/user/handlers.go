package userhandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
	"hradmin/internal/transport/http/shared"
)

type Handler struct {
	Store *auth.Store
	Perms middleware.PolicyStore
}

func NewHandler(store *auth.Store, perms middleware.PolicyStore) *Handler {
	return &Handler{Store: store, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Post("/", h.handleCreate)
		r.Get("/me", h.handleMe)
		r.Post("/me/change-password", h.handleChangeOwnPassword)
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/role/{role}", h.handleListByRole)
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/statistics/count-by-role", h.handleCountByRole)
		r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/{userID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Put("/{userID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Post("/{userID}/activate", h.handleActivate)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Post("/{userID}/deactivate", h.handleDeactivate)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Post("/{userID}/reset-password", h.handleResetPassword)
		r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Perms)).Delete("/{userID}", h.handleDelete)
	})
}

type userPayload struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	EmployeeID *int64 `json:"employeeId"`
}

type listResponse struct {
	Users []auth.User `json:"users"`
	Total int         `json:"total"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	role := r.URL.Query().Get("role")
	if role != "" && !auth.ValidRole(role) {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "unknown role "+role, reqID)
		return
	}

	users, total, err := h.Store.List(r.Context(), role, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, listResponse{Users: users, Total: total}, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email is required", reqID)
		return
	}
	if len(payload.Password) < 8 {
		api.Fail(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters", reqID)
		return
	}
	if !auth.ValidRole(payload.Role) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown role "+payload.Role, reqID)
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}

	id, err := h.Store.Create(r.Context(), payload.Email, hash, payload.Role, payload.EmployeeID)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}

	created, err := h.Store.Get(r.Context(), id)
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

	user, err := h.Store.Get(r.Context(), caller.UserID)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, user, reqID)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) handleChangeOwnPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if len(payload.NewPassword) < 8 {
		api.Fail(w, http.StatusBadRequest, "weak_password", "new password must be at least 8 characters", reqID)
		return
	}

	hash, err := h.Store.PasswordHash(r.Context(), caller.UserID)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	if err := auth.CheckPassword(hash, payload.OldPassword); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "old password does not match", reqID)
		return
	}

	newHash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	if err := h.Store.UpdatePassword(r.Context(), caller.UserID, newHash); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "password changed"}, reqID)
}

func (h *Handler) handleListByRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	role := chi.URLParam(r, "role")
	if !auth.ValidRole(role) {
		api.Fail(w, http.StatusBadRequest, "invalid_filter", "unknown role "+role, reqID)
		return
	}
	page := shared.ParsePagination(r, 100, 500)

	users, total, err := h.Store.List(r.Context(), role, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, listResponse{Users: users, Total: total}, reqID)
}

func (h *Handler) handleCountByRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	counts, err := h.Store.CountByRole(r.Context())
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, counts, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "userID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid user id", reqID)
		return
	}

	user, err := h.Store.Get(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, user, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "userID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid user id", reqID)
		return
	}

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email is required", reqID)
		return
	}
	if !auth.ValidRole(payload.Role) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown role "+payload.Role, reqID)
		return
	}

	if err := h.Store.Update(r.Context(), id, payload.Email, payload.Role, payload.EmployeeID); err != nil {
		api.FromError(w, err, reqID)
		return
	}

	updated, err := h.Store.Get(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "userID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid user id", reqID)
		return
	}

	if err := h.Store.SetActive(r.Context(), id, active); err != nil {
		api.FromError(w, err, reqID)
		return
	}

	user, err := h.Store.Get(r.Context(), id)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, user, reqID)
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "userID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid user id", reqID)
		return
	}

	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if len(payload.NewPassword) < 8 {
		api.Fail(w, http.StatusBadRequest, "weak_password", "new password must be at least 8 characters", reqID)
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	if err := h.Store.UpdatePassword(r.Context(), id, hash); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "password reset"}, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, ok := shared.ParseID(chi.URLParam(r, "userID"))
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid user id", reqID)
		return
	}

	caller, ok := middleware.GetUser(r.Context())
	if ok && caller.UserID == id {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "cannot delete your own account", reqID)
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.NoContent(w)
}
