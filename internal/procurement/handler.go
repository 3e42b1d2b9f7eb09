package procurement

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Handler wires procurement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
	resp    httpx.Responder
}

// NewHandler creates a procurement handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware, resp httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, resp: resp}
}

// MountRoutes registers /api/purchases.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.APIPermission(rbac.ResourceTransactions, rbac.ActionCreate)).Post("/", h.post)
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	var batch PurchaseBatch
	if err := httpx.DecodeJSON(r, &batch); err != nil {
		h.resp.Invalid(w, shared.MsgInvalidRequest)
		return
	}
	report, err := h.service.PostPurchases(r.Context(), shared.SessionFromContext(r.Context()), batch)
	if err != nil {
		h.resp.Error(w, r, "procurement.post", err)
		return
	}
	httpx.Batch(w, report, h.resp.Messages)
}
