package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/odyssey-stock/internal/audit"
	"github.com/odyssey-erp/odyssey-stock/internal/auth"
	"github.com/odyssey-erp/odyssey-stock/internal/inventory"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/branches"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/clients"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/products"
	"github.com/odyssey-erp/odyssey-stock/internal/observability"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/procurement"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/sales"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/users"
	"github.com/odyssey-erp/odyssey-stock/internal/view"
	"github.com/odyssey-erp/odyssey-stock/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger   *slog.Logger
	Config   *Config
	Messages *shared.ErrorTranslator
	Metrics  *observability.Metrics
	RBAC     rbac.Middleware

	AuthHandler        *auth.Handler
	Pages              *view.Pages
	BranchesHandler    *branches.Handler
	CategoriesHandler  *categories.Handler
	ProductsHandler    *products.Handler
	ClientsHandler     *clients.Handler
	UsersHandler       *users.Handler
	InventoryHandler   *inventory.Handler
	ProcurementHandler *procurement.Handler
	SalesHandler       *sales.Handler
	AuditHandler       *audit.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with Odyssey defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	cookieName := "session_token"
	if params.RBAC.Sessions != nil {
		cookieName = params.RBAC.Sessions.CookieName()
	}
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:     params.Logger,
		Config:     params.Config,
		Messages:   params.Messages,
		Metrics:    params.Metrics,
		CookieName: cookieName,
	}) {
		r.Use(mw)
	}
	if !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	if params.AuthHandler != nil {
		r.Get(shared.LoginPath, params.AuthHandler.LoginPage)
	}
	if params.Pages != nil {
		params.Pages.MountRoutes(r)
	}

	r.Route("/api", func(api chi.Router) {
		if params.AuthHandler != nil {
			api.Route("/auth", params.AuthHandler.MountRoutes)
		}
		if params.BranchesHandler != nil {
			api.Route("/branches", params.BranchesHandler.MountRoutes)
		}
		if params.CategoriesHandler != nil {
			api.Route("/categories", params.CategoriesHandler.MountRoutes)
		}
		if params.ProductsHandler != nil {
			api.Route("/products", params.ProductsHandler.MountRoutes)
		}
		if params.ClientsHandler != nil {
			api.Route("/clients", params.ClientsHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			api.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.InventoryHandler != nil {
			api.Route("/inventory", params.InventoryHandler.MountRoutes)
			api.Route("/adjustments", params.InventoryHandler.MountAdjustments)
		}
		if params.ProcurementHandler != nil {
			api.Route("/purchases", params.ProcurementHandler.MountRoutes)
		}
		if params.SalesHandler != nil {
			api.Route("/sales", params.SalesHandler.MountRoutes)
		}
		if params.AuditHandler != nil {
			api.Route("/audit", params.AuditHandler.MountRoutes)
		}
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpx.Fail(w, http.StatusNotFound, params.Messages.Text(shared.MsgNotFound))
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", func(jr chi.Router) {
			jr.Use(params.RBAC.APIRequireRoles(rbac.RoleAdmin))
			params.JobHandler.MountRoutes(jr)
		})
	}

	return r
}
