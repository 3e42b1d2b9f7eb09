package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Handler exposes user management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
	resp    httpx.Responder
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware, resp httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, resp: resp}
}

// MountRoutes registers /api/users.
func (h *Handler) MountRoutes(r chi.Router) {
	shared.SaveRoutes(r, h.rbac, rbac.ResourceUsers, h.list, h.save, h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r)
	items, total, err := h.service.ListUsers(r.Context(), filters)
	if err != nil {
		h.resp.Error(w, r, "users.list", err)
		return
	}
	httpx.OK(w, shared.NewPage(items, total, filters))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var form UserForm
	if !shared.Decode(w, r, h.resp, &form) {
		return
	}
	if _, ok := shared.AuthorizeSave(w, r, h.resp, rbac.ResourceUsers, form.ID); !ok {
		return
	}
	user, err := h.service.SaveUser(r.Context(), form)
	if err != nil {
		h.resp.Error(w, r, "users.save", err)
		return
	}
	h.logger.Info("user saved",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
		slog.String("actor_id", internalShared.ActorID(r.Context())))
	httpx.Saved(w, user, h.resp.Text(internalShared.MsgSaved))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), internalShared.ActorID(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.resp.Error(w, r, "users.delete", err)
		return
	}
	httpx.OKMessage(w, h.resp.Text(internalShared.MsgDeleted))
}
