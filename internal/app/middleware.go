package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/odyssey-erp/odyssey-stock/internal/observability"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger     *slog.Logger
	Config     *Config
	Messages   *shared.ErrorTranslator
	Metrics    *observability.Metrics
	CookieName string
}

// publicPaths are reachable without a session cookie.
var publicPaths = map[string]struct{}{
	shared.LoginPath: {},
	"/healthz":       {},
	"/metrics":       {},
	"/favicon.ico":   {},
}

// MiddlewareStack installs the Odyssey middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !cfg.Config.IsProduction(),
	})

	timeout := 30 * time.Second
	globalLimit := 120
	if cfg.Config != nil {
		if cfg.Config.AppRequestTimeout > 0 {
			timeout = cfg.Config.AppRequestTimeout
		}
		if cfg.Config.GlobalRateLimit > 0 {
			globalLimit = cfg.Config.GlobalRateLimit
		}
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		Recoverer(cfg.Logger, cfg.Messages, !cfg.Config.IsProduction()),
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					httpx.Fail(w, http.StatusBadRequest, cfg.Messages.Text(shared.MsgInvalidRequest))
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(globalLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(limitHandler(cfg.Messages))),
		LoginGate(cfg.CookieName),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	return middlewares
}

// LoginLimiter is the stricter per-IP limit applied to the login endpoint.
func LoginLimiter(perMinute int, messages *shared.ErrorTranslator) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		perMinute = 10
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitHandler(messages)))
}

func limitHandler(messages *shared.ErrorTranslator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusTooManyRequests, messages.Text(shared.MsgTooManyRequests))
	}
}

// LoginGate sends page requests without a session cookie to the login page.
// API, static and public paths pass through; the access gate on each route
// still verifies the cookie against the session store.
func LoginGate(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = "session_token"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gateExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if c, err := r.Cookie(cookieName); err != nil || c.Value == "" {
				http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func gateExempt(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/jobs/")
}

// Recoverer turns panics into a 500 envelope. The stack is only logged in
// development.
func Recoverer(logger *slog.Logger, messages *shared.ErrorTranslator, development bool) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				attrs := []any{
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("panic", fmt.Sprint(rec)),
				}
				if development {
					attrs = append(attrs, slog.String("stack", string(debug.Stack())))
				}
				logger.Error("panic recovered", attrs...)
				httpx.Fail(w, http.StatusInternalServerError, messages.Text(shared.MsgGeneric))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
