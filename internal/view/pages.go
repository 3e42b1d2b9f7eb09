package view

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// PageDef binds a page path to the resource whose read permission opens it.
type PageDef struct {
	Path     string
	Title    string
	Resource rbac.Resource
}

// Catalog lists every guarded page in menu order.
var Catalog = []PageDef{
	{Path: "/inventory", Title: "Inventory", Resource: rbac.ResourceInventory},
	{Path: "/purchases", Title: "Purchases", Resource: rbac.ResourceTransactions},
	{Path: "/sales", Title: "Sales", Resource: rbac.ResourceTransactions},
	{Path: "/adjustments", Title: "Adjustments", Resource: rbac.ResourceTransactions},
	{Path: "/products", Title: "Products", Resource: rbac.ResourceProducts},
	{Path: "/categories", Title: "Categories", Resource: rbac.ResourceCategories},
	{Path: "/clients", Title: "Clients", Resource: rbac.ResourceClients},
	{Path: "/branches", Title: "Branches", Resource: rbac.ResourceBranches},
	{Path: "/users", Title: "Users", Resource: rbac.ResourceUsers},
}

// Pages serves the page view models.
type Pages struct {
	logger    *slog.Logger
	rbac      rbac.Middleware
	csrf      *shared.CSRFManager
	dashboard *Dashboard
	resp      httpx.Responder
}

// NewPages constructs the page handler.
func NewPages(logger *slog.Logger, mw rbac.Middleware, csrf *shared.CSRFManager, dashboard *Dashboard, resp httpx.Responder) *Pages {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pages{logger: logger, rbac: mw, csrf: csrf, dashboard: dashboard, resp: resp}
}

// MountRoutes registers "/" and every catalog page.
func (p *Pages) MountRoutes(r chi.Router) {
	r.With(p.rbac.Pages).Get("/", p.home)
	for _, def := range Catalog {
		r.With(p.rbac.PagePermission(def.Resource, rbac.ActionRead)).Get(def.Path, p.page(def))
	}
}

func (p *Pages) base(r *http.Request, title string) (TemplateData, *shared.Session) {
	sess := shared.SessionFromContext(r.Context())
	checker := rbac.NewChecker(sess.Role)
	data := TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		User:        newUser(sess),
		Nav:         navFor(checker),
	}
	if p.csrf != nil {
		if token, err := p.csrf.Token(sess); err == nil {
			data.CSRFToken = token
		}
	}
	return data, sess
}

func (p *Pages) home(w http.ResponseWriter, r *http.Request) {
	data, sess := p.base(r, "Dashboard")
	if p.dashboard != nil {
		summary, err := p.dashboard.Load(r.Context(), sess)
		if err != nil {
			p.resp.Error(w, r, "view.dashboard", err)
			return
		}
		data.Data = summary
	}
	Render(w, data)
}

func (p *Pages) page(def PageDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, sess := p.base(r, def.Title)
		data.Can = capabilities(rbac.NewChecker(sess.Role), def.Resource)
		Render(w, data)
	}
}

func navFor(checker rbac.Checker) []NavItem {
	nav := []NavItem{{Path: "/", Title: "Dashboard"}}
	for _, def := range Catalog {
		if checker.Can(def.Resource, rbac.ActionRead) {
			nav = append(nav, NavItem{Path: def.Path, Title: def.Title})
		}
	}
	return nav
}
