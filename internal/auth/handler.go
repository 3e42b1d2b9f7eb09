package auth

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// BranchLister provides the public list of active branches.
type BranchLister interface {
	ActiveOptions(ctx context.Context) ([]BranchOption, error)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	sessions  *shared.SessionResolver
	csrf      *shared.CSRFManager
	branches  BranchLister
	rbac      rbac.Middleware
	resp      httpx.Responder
	validator *validator.Validate
	limiter   func(http.Handler) http.Handler
}

// HandlerDeps groups Handler collaborators.
type HandlerDeps struct {
	Logger    *slog.Logger
	Service   *Service
	Sessions  *shared.SessionResolver
	CSRF      *shared.CSRFManager
	Branches  BranchLister
	RBAC      rbac.Middleware
	Responder httpx.Responder
	// LoginLimiter, when set, wraps POST /login.
	LoginLimiter func(http.Handler) http.Handler
}

// NewHandler constructs a Handler instance.
func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   deps.Service,
		sessions:  deps.Sessions,
		csrf:      deps.CSRF,
		branches:  deps.Branches,
		rbac:      deps.RBAC,
		resp:      deps.Responder,
		validator: shared.NewValidator(),
		limiter:   deps.LoginLimiter,
	}
}

// MountRoutes registers /api/auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	login := http.Handler(http.HandlerFunc(h.handleLogin))
	if h.limiter != nil {
		login = h.limiter(login)
	}
	r.Method(http.MethodPost, "/login", login)
	r.Post("/logout", h.handleLogout)
	r.Get("/branches", h.handleBranches)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.APISession)
		r.Get("/me", h.handleMe)
		r.Get("/csrf", h.handleCSRF)
	})
}

type loginPage struct {
	Title    string         `json:"title"`
	Branches []BranchOption `json:"branches"`
}

// LoginPage serves GET /login. Signed-in users are sent to the landing page.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := h.sessions.Get(w, r); sess != nil {
		http.Redirect(w, r, rbac.LandingPath, http.StatusSeeOther)
		return
	}
	options, err := h.activeBranches(r.Context())
	if err != nil {
		h.logger.Warn("load login branches", slog.Any("error", err))
	}
	httpx.OK(w, loginPage{Title: "Sign in", Branches: options})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.resp.Invalid(w, shared.MsgMissingLogin)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.resp.Invalid(w, shared.MsgMissingLogin)
		return
	}

	sess, err := h.service.Login(r.Context(), req, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Warn("login rejected", slog.String("username", req.Username), slog.String("branch_id", req.BranchID))
			httpx.Fail(w, http.StatusUnauthorized, h.resp.Text(shared.MsgInvalidCredentials))
			return
		}
		h.resp.Error(w, r, "auth.login", err)
		return
	}

	h.sessions.SetCookie(w, sess.Token)
	httpx.OK(w, newProfile(sess))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := h.sessions.Token(r)
	err := h.service.Logout(r.Context(), token)
	h.sessions.ClearCookie(w)
	if err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		httpx.FailError(w, http.StatusInternalServerError, h.resp.Text(shared.MsgLogoutFailed))
		return
	}
	httpx.OKMessage(w, h.resp.Text(shared.MsgLoggedOut))
}

func (h *Handler) handleBranches(w http.ResponseWriter, r *http.Request) {
	options, err := h.activeBranches(r.Context())
	if err != nil {
		h.resp.Error(w, r, "auth.branches", err)
		return
	}
	httpx.OK(w, options)
}

func (h *Handler) activeBranches(ctx context.Context) ([]BranchOption, error) {
	if h.branches == nil {
		return []BranchOption{}, nil
	}
	options, err := h.branches.ActiveOptions(ctx)
	if err != nil {
		return []BranchOption{}, err
	}
	if options == nil {
		options = []BranchOption{}
	}
	return options, nil
}

// Profile describes the signed-in user for the UI.
type Profile struct {
	Session     *shared.Session                 `json:"session"`
	RoleLabel   string                          `json:"role_label"`
	RoleIcon    string                          `json:"role_icon"`
	CrossBranch bool                            `json:"cross_branch"`
	Permissions map[rbac.Resource][]rbac.Action `json:"permissions"`
}

func newProfile(sess *shared.Session) Profile {
	role := rbac.ParseRole(sess.Role)
	return Profile{
		Session:     sess,
		RoleLabel:   rbac.RoleLabel(role),
		RoleIcon:    rbac.RoleIcon(role),
		CrossBranch: rbac.CrossBranch(role),
		Permissions: rbac.NewChecker(sess.Role).ResourceActions(),
	}
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, newProfile(shared.SessionFromContext(r.Context())))
}

func (h *Handler) handleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrf.Token(shared.SessionFromContext(r.Context()))
	if err != nil {
		h.resp.Error(w, r, "auth.csrf", err)
		return
	}
	httpx.OK(w, map[string]string{"token": token, "header": shared.CSRFHeader})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
