package products

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

// MountRoutes registers /api/products.
func (h *Handler) MountRoutes(r chi.Router) {
	shared.SaveRoutes(r, h.rbac, rbac.ResourceProducts, h.list, h.save, h.delete)
	r.With(h.rbac.APIRequireAll(rbac.ResourceProducts, rbac.ActionCreate, rbac.ActionUpdate)).Post("/import", h.importRows)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.resp.Error(w, r, "products.list", err)
		return
	}
	httpx.OK(w, shared.NewPage(items, total, filters))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if !shared.Decode(w, r, h.resp, &form) {
		return
	}
	if _, ok := shared.AuthorizeSave(w, r, h.resp, rbac.ResourceProducts, form.ID); !ok {
		return
	}
	product, err := h.service.Save(r.Context(), form)
	if err != nil {
		h.resp.Error(w, r, "products.save", err)
		return
	}
	httpx.Saved(w, product, h.resp.Text(internalShared.MsgSaved))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.resp.Error(w, r, "products.delete", err)
		return
	}
	httpx.OKMessage(w, h.resp.Text(internalShared.MsgDeleted))
}

func (h *Handler) importRows(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || len(req.Rows) == 0 || len(req.Rows) > MaxImportRows {
		h.resp.Invalid(w, internalShared.MsgInvalidRequest)
		return
	}
	report := h.service.Import(r.Context(), req.Rows)
	httpx.Batch(w, report, h.resp.Messages)
}
