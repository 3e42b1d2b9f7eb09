package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

const (
	exportRateLimit  = 10
	exportRateWindow = time.Minute
)

// Handler serves /api/audit.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
	resp    httpx.Responder
}

// NewHandler builds the audit handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware, resp httpx.Responder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac, resp: resp}
}

// MountRoutes registers the audit log and its CSV export.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(exportRateLimit, exportRateWindow,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Fail(w, http.StatusTooManyRequests, h.resp.Text(shared.MsgTooManyRequests))
		}),
	)
	r.Group(func(gr chi.Router) {
		gr.Use(h.rbac.APIRequireRoles(rbac.RoleAdmin, rbac.RoleDirector))
		gr.Get("/", h.list)
		gr.With(limiter).Get("/export.csv", h.export)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters, ok := h.parseFilters(w, r)
	if !ok {
		return
	}
	entries, err := h.service.Logs(r.Context(), shared.SessionFromContext(r.Context()), filters)
	if err != nil {
		h.resp.Error(w, r, "audit.list", err)
		return
	}
	httpx.OK(w, entries)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	filters, ok := h.parseFilters(w, r)
	if !ok {
		return
	}
	entries, err := h.service.Logs(r.Context(), shared.SessionFromContext(r.Context()), filters)
	if err != nil {
		h.resp.Error(w, r, "audit.export", err)
		return
	}
	body, err := WriteCSV(entries)
	if err != nil {
		h.resp.Error(w, r, "audit.export.csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-log.csv"`)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}

func (h *Handler) parseFilters(w http.ResponseWriter, r *http.Request) (Filters, bool) {
	q := r.URL.Query()
	filters := Filters{BranchID: strings.TrimSpace(q.Get("branch_id"))}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.resp.Invalid(w, shared.MsgFieldInvalid, "limit")
			return Filters{}, false
		}
		filters.Limit = n
	}
	return filters, true
}

func rateLimitKey(r *http.Request) (string, error) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.UserID != "" {
		return "user:" + sess.UserID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
