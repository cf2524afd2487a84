package statshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/stats"
	"hradmin/internal/transport/http/api"
	"hradmin/internal/transport/http/middleware"
)

type Handler struct {
	Store *stats.Store
	Perms middleware.PolicyStore
}

func NewHandler(store *stats.Store, perms middleware.PolicyStore) *Handler {
	return &Handler{Store: store, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/statistics", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/dashboard", h.handleDashboard)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	dashboard, err := h.Store.Dashboard(r.Context(), time.Now())
	if err != nil {
		api.FromError(w, err, reqID)
		return
	}
	api.Success(w, dashboard, reqID)
}
