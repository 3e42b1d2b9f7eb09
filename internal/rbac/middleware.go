package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// LandingPath is where page requests without the needed permission are sent.
const LandingPath = "/"

// DenialRecorder counts requests stopped by the gate.
type DenialRecorder interface {
	AccessDenied(reason string)
}

// Middleware is the access gate in front of every page and API handler. Page
// guards answer with redirects, API guards with JSON envelopes.
type Middleware struct {
	Sessions *shared.SessionResolver
	CSRF     *shared.CSRFManager
	Messages *shared.ErrorTranslator
	Metrics  DenialRecorder
	Logger   *slog.Logger
}

// session returns the session already resolved for this request or resolves it.
func (m Middleware) session(w http.ResponseWriter, r *http.Request) (*shared.Session, *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess, r
	}
	sess := m.Sessions.Get(w, r)
	if sess == nil {
		return nil, r
	}
	return sess, r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func (m Middleware) denied(reason string) {
	if m.Metrics != nil {
		m.Metrics.AccessDenied(reason)
	}
}

// Pages requires a session and redirects to the login page otherwise.
func (m Middleware) Pages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, r := m.session(w, r)
		if sess == nil {
			m.denied("unauthenticated")
			http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PagePermission requires a session holding (resource, action). Missing
// sessions go to the login page, missing permissions to the landing page.
func (m Middleware) PagePermission(resource Resource, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := m.RequirePermission(w, r, resource, action)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithSession(r.Context(), sess)))
		})
	}
}

// RequirePermission is the imperative form of PagePermission. When it returns
// false the redirect has been written and the caller must return.
func (m Middleware) RequirePermission(w http.ResponseWriter, r *http.Request, resource Resource, action Action) (*shared.Session, bool) {
	sess, r := m.session(w, r)
	if sess == nil {
		m.denied("unauthenticated")
		http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
		return nil, false
	}
	if !NewChecker(sess.Role).Can(resource, action) {
		m.denied("forbidden")
		m.logDenied(r, sess, guardAttrs(resource, action)...)
		http.Redirect(w, r, LandingPath, http.StatusSeeOther)
		return nil, false
	}
	return sess, true
}

// APISession requires a session and answers 401 otherwise. Mutating requests
// must also carry the session's CSRF token.
func (m Middleware) APISession(next http.Handler) http.Handler {
	return m.api(nil, func(*shared.Session) bool { return true }, next)
}

// APIPermission requires (resource, action).
func (m Middleware) APIPermission(resource Resource, action Action) func(http.Handler) http.Handler {
	guard := guardAttrs(resource, action)
	return func(next http.Handler) http.Handler {
		return m.api(guard, func(sess *shared.Session) bool {
			return NewChecker(sess.Role).Can(resource, action)
		}, next)
	}
}

// APIRequireAny requires at least one of the actions on resource.
func (m Middleware) APIRequireAny(resource Resource, actions ...Action) func(http.Handler) http.Handler {
	guard := guardAttrs(resource, actions...)
	return func(next http.Handler) http.Handler {
		return m.api(guard, func(sess *shared.Session) bool {
			return NewChecker(sess.Role).CanAny(resource, actions...)
		}, next)
	}
}

// APIRequireAll requires every action on resource.
func (m Middleware) APIRequireAll(resource Resource, actions ...Action) func(http.Handler) http.Handler {
	guard := guardAttrs(resource, actions...)
	return func(next http.Handler) http.Handler {
		return m.api(guard, func(sess *shared.Session) bool {
			return NewChecker(sess.Role).CanAll(resource, actions...)
		}, next)
	}
}

// APIRequireRoles requires the session role to be one of roles.
func (m Middleware) APIRequireRoles(roles ...Role) func(http.Handler) http.Handler {
	codes := make([]string, len(roles))
	for i, role := range roles {
		codes[i] = string(role)
	}
	guard := []slog.Attr{slog.String("required_roles", strings.Join(codes, ","))}
	return func(next http.Handler) http.Handler {
		return m.api(guard, func(sess *shared.Session) bool {
			role := ParseRole(sess.Role)
			if role == RoleUnknown {
				return false
			}
			for _, allowed := range roles {
				if role == allowed {
					return true
				}
			}
			return false
		}, next)
	}
}

// api runs the shared API checks. guard describes what is protected and is
// only used when logging a denial.
func (m Middleware) api(guard []slog.Attr, allow func(*shared.Session) bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, r := m.session(w, r)
		if sess == nil {
			m.denied("unauthenticated")
			httpx.Fail(w, http.StatusUnauthorized, m.Messages.Text(shared.MsgUnauthenticated))
			return
		}
		if !allow(sess) {
			m.denied("forbidden")
			m.logDenied(r, sess, guard...)
			httpx.Fail(w, http.StatusForbidden, m.Messages.Text(shared.MsgForbidden))
			return
		}
		if m.CSRF != nil && !safeMethod(r.Method) {
			if err := m.CSRF.VerifyToken(sess, r.Header.Get(shared.CSRFHeader)); err != nil {
				m.denied("csrf")
				httpx.Fail(w, http.StatusForbidden, m.Messages.Text(shared.MsgForbidden))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func guardAttrs(resource Resource, actions ...Action) []slog.Attr {
	names := make([]string, len(actions))
	for i, action := range actions {
		names[i] = string(action)
	}
	return []slog.Attr{
		slog.String("resource", string(resource)),
		slog.String("action", strings.Join(names, ",")),
	}
}

func (m Middleware) logDenied(r *http.Request, sess *shared.Session, guard ...slog.Attr) {
	if m.Logger == nil {
		return
	}
	attrs := []any{
		slog.String("path", r.URL.Path),
		slog.String("user_id", sess.UserID),
		slog.String("role", sess.Role),
	}
	for _, attr := range guard {
		attrs = append(attrs, attr)
	}
	m.Logger.Warn("access denied", attrs...)
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
