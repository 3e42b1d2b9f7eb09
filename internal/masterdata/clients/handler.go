package clients

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
	resp    httpx.Responder
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware, resp httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, resp: resp}
}

// MountRoutes registers /api/clients.
func (h *Handler) MountRoutes(r chi.Router) {
	shared.SaveRoutes(r, h.rbac, rbac.ResourceClients, h.list, h.save, h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r)
	items, total, err := h.service.List(r.Context(), internalShared.SessionFromContext(r.Context()), filters)
	if err != nil {
		h.resp.Error(w, r, "clients.list", err)
		return
	}
	httpx.OK(w, shared.NewPage(items, total, filters))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var form ClientForm
	if !shared.Decode(w, r, h.resp, &form) {
		return
	}
	sess, ok := shared.AuthorizeSave(w, r, h.resp, rbac.ResourceClients, form.ID)
	if !ok {
		return
	}
	client, err := h.service.Save(r.Context(), sess, form)
	if err != nil {
		h.resp.Error(w, r, "clients.save", err)
		return
	}
	httpx.Saved(w, client, h.resp.Text(internalShared.MsgSaved))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	sess := internalShared.SessionFromContext(r.Context())
	if err := h.service.Delete(r.Context(), sess, chi.URLParam(r, "id")); err != nil {
		h.resp.Error(w, r, "clients.delete", err)
		return
	}
	httpx.OKMessage(w, h.resp.Text(internalShared.MsgDeleted))
}
