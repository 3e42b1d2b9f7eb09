package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// Session is the identity bound to a verified bearer token.
type Session struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	BranchID   string `json:"branch_id,omitempty"`
	BranchName string `json:"branch_name,omitempty"`
	Token      string `json:"-"`
}

// SessionRecord is what the session store reports for a token.
type SessionRecord struct {
	Valid      bool
	UserID     string
	FullName   string
	Role       string
	BranchID   string
	BranchName string
	ExpiresAt  time.Time
}

// SessionVerifier looks up a bearer token in the session store. It returns
// ErrSessionInvalid for unknown tokens.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*SessionRecord, error)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// SessionResolver reads the session cookie and re-verifies it against the
// store on every call. Nothing is cached between requests.
type SessionResolver struct {
	verifier SessionVerifier
	cookie   CookieConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionResolver constructs a SessionResolver.
func NewSessionResolver(verifier SessionVerifier, cookie CookieConfig, logger *slog.Logger) *SessionResolver {
	if cookie.Name == "" {
		cookie.Name = "session_token"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionResolver{verifier: verifier, cookie: cookie, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for expiry checks.
func (sr *SessionResolver) WithClock(now func() time.Time) *SessionResolver {
	sr.now = now
	return sr
}

// CookieName returns the session cookie name.
func (sr *SessionResolver) CookieName() string {
	return sr.cookie.Name
}

// TTL exposes the configured session lifetime.
func (sr *SessionResolver) TTL() time.Duration {
	return sr.cookie.MaxAge
}

// Token returns the bearer token carried by the request, if any.
func (sr *SessionResolver) Token(r *http.Request) string {
	cookie, err := r.Cookie(sr.cookie.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Get resolves the request's session. It returns nil when there is no
// cookie, when the store rejects the token (the cookie is then cleared) or
// when the store cannot be reached.
func (sr *SessionResolver) Get(w http.ResponseWriter, r *http.Request) *Session {
	token := sr.Token(r)
	if token == "" {
		return nil
	}

	record, err := sr.verifier.VerifySession(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrSessionInvalid) {
			sr.ClearCookie(w)
			return nil
		}
		sr.logger.Error("verify session", slog.Any("error", err))
		return nil
	}
	if record == nil || !record.Valid || (!record.ExpiresAt.IsZero() && !sr.now().Before(record.ExpiresAt)) {
		sr.ClearCookie(w)
		return nil
	}

	return &Session{
		UserID:     record.UserID,
		Name:       record.FullName,
		Role:       record.Role,
		BranchID:   record.BranchID,
		BranchName: record.BranchName,
		Token:      token,
	}
}

// Require resolves the session or redirects to the login page. When it
// returns false the response has been written and the caller must stop.
func (sr *SessionResolver) Require(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess := sr.Get(w, r)
	if sess == nil {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return nil, false
	}
	return sess, true
}

// SetCookie writes the session cookie for a freshly created token.
func (sr *SessionResolver) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sr.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sr.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   sr.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (sr *SessionResolver) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sr.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sr.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
