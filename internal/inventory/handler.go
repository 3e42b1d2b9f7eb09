package inventory

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Handler exposes inventory endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
	resp    httpx.Responder
}

// NewHandler builds inventory HTTP handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware, resp httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, resp: resp}
}

// MountRoutes registers /api/inventory.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.APIPermission(rbac.ResourceInventory, rbac.ActionRead)).Get("/status", h.status)
}

// MountAdjustments registers /api/adjustments.
func (h *Handler) MountAdjustments(r chi.Router) {
	r.With(h.rbac.APIPermission(rbac.ResourceTransactions, rbac.ActionUpdate)).Post("/", h.adjust)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Status(r.Context(), shared.SessionFromContext(r.Context()), r.URL.Query().Get("branch_id"))
	if err != nil {
		h.resp.Error(w, r, "inventory.status", err)
		return
	}
	httpx.OK(w, report)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var batch AdjustmentBatch
	if err := httpx.DecodeJSON(r, &batch); err != nil {
		h.resp.Invalid(w, shared.MsgInvalidRequest)
		return
	}
	report, err := h.service.PostAdjustments(r.Context(), shared.SessionFromContext(r.Context()), batch)
	if err != nil {
		h.resp.Error(w, r, "inventory.adjust", err)
		return
	}
	httpx.Batch(w, report, h.resp.Messages)
}
