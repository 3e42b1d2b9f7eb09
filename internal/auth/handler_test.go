package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-stock/internal/auth"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
	_ "github.com/odyssey-erp/odyssey-stock/testing"
)

type stubRepo struct {
	password      string
	createErr     error
	invalidateErr error
	created       []string
	invalidated   []string
	adminBranch   string
}

var branchNames = map[string]string{"B1": "Centro", "B2": "Norte"}

func (s *stubRepo) VerifyLogin(ctx context.Context, username, password, branchID string) (*auth.Account, error) {
	if password != s.password {
		return nil, shared.ErrInvalidCredentials
	}
	switch {
	case username == "mgr1" && branchID == "B1":
		return &auth.Account{UserID: "u-mgr1", FullName: "Manager One", Role: "0002", BranchID: "B1", BranchName: "Centro"}, nil
	case username == "admin":
		return &auth.Account{UserID: "u-admin", FullName: "Ada Admin", Role: "0000"}, nil
	default:
		return nil, shared.ErrInvalidCredentials
	}
}

func (s *stubRepo) CreateSession(ctx context.Context, userID, branchID, ip, userAgent string, expiresAt time.Time) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, userID)
	if userID == "u-admin" {
		s.adminBranch = branchID
	}
	return "tok-" + userID, nil
}

func (s *stubRepo) VerifySession(ctx context.Context, token string) (*shared.SessionRecord, error) {
	switch token {
	case "tok-u-mgr1":
		return &shared.SessionRecord{Valid: true, UserID: "u-mgr1", FullName: "Manager One", Role: "0002", BranchID: "B1", BranchName: "Centro", ExpiresAt: time.Now().Add(time.Hour)}, nil
	case "tok-u-admin":
		return &shared.SessionRecord{Valid: true, UserID: "u-admin", FullName: "Ada Admin", Role: "0000",
			BranchID: s.adminBranch, BranchName: branchNames[s.adminBranch], ExpiresAt: time.Now().Add(time.Hour)}, nil
	default:
		return nil, shared.ErrSessionInvalid
	}
}

func (s *stubRepo) InvalidateSession(ctx context.Context, token string) error {
	s.invalidated = append(s.invalidated, token)
	return s.invalidateErr
}

func (s *stubRepo) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubBranches struct{}

func (stubBranches) ActiveOptions(ctx context.Context) ([]auth.BranchOption, error) {
	return []auth.BranchOption{{ID: "B1", Code: "CEN", Name: "Centro"}}, nil
}

func newRouter(t *testing.T, repo *stubRepo) (http.Handler, *shared.SessionResolver) {
	t.Helper()
	messages := shared.NewErrorTranslator("en", false)
	sessions := shared.NewSessionResolver(repo, shared.CookieConfig{}, nil)
	csrf := shared.NewCSRFManager("secret")
	handler := auth.NewHandler(auth.HandlerDeps{
		Service:   auth.NewService(repo, time.Hour, nil),
		Sessions:  sessions,
		CSRF:      csrf,
		Branches:  stubBranches{},
		RBAC:      rbac.Middleware{Sessions: sessions, CSRF: csrf, Messages: messages},
		Responder: httpx.Responder{Messages: messages},
	})
	r := chi.NewRouter()
	r.Get("/login", handler.LoginPage)
	r.Route("/api/auth", handler.MountRoutes)
	return r, sessions
}

func postLogin(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func envelope(t *testing.T, rr *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestLoginWrongPasswordSetsNoCookie(t *testing.T) {
	router, _ := newRouter(t, &stubRepo{password: "secret"})

	rr := postLogin(router, `{"username":"mgr1","password":"wrong","branch_id":"B1"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	env := envelope(t, rr)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
	assert.Empty(t, rr.Result().Cookies())
}

func TestLoginMissingFields(t *testing.T) {
	router, _ := newRouter(t, &stubRepo{password: "secret"})

	rr := postLogin(router, `{"username":"mgr1","password":"secret"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, shared.MsgMissingLogin, envelope(t, rr).Message)

	rr = postLogin(router, ``)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	repo := &stubRepo{password: "secret"}
	router, _ := newRouter(t, repo)

	rr := postLogin(router, `{"username":"mgr1","password":"secret","branch_id":"B1"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, envelope(t, rr).Success)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.Equal(t, "tok-u-mgr1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, []string{"u-mgr1"}, repo.created)
}

func TestLoginReportsSessionBranch(t *testing.T) {
	repo := &stubRepo{password: "secret"}
	router, _ := newRouter(t, repo)

	rr := postLogin(router, `{"username":"admin","password":"secret","branch_id":"B2"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	type profile struct {
		Data struct {
			Session shared.Session `json:"session"`
		} `json:"data"`
	}
	var login profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	assert.Equal(t, "B2", login.Data.Session.BranchID)
	assert.Equal(t, "Norte", login.Data.Session.BranchName)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(rr.Result().Cookies()[0])
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var me profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, login.Data.Session, me.Data.Session)
}

func TestLoginDownstreamFailure(t *testing.T) {
	router, _ := newRouter(t, &stubRepo{password: "secret", createErr: errors.New("dial tcp: connection refused")})

	rr := postLogin(router, `{"username":"mgr1","password":"secret","branch_id":"B1"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := envelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, shared.MsgGeneric, env.Message)
	assert.Empty(t, rr.Result().Cookies())
}

func TestLogoutWithoutCookie(t *testing.T) {
	repo := &stubRepo{}
	router, _ := newRouter(t, repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, envelope(t, rr).Success)
	assert.Empty(t, repo.invalidated)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestLogoutFailureStillClearsCookie(t *testing.T) {
	repo := &stubRepo{invalidateErr: errors.New("timeout")}
	router, _ := newRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-u-mgr1"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := envelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, shared.MsgLogoutFailed, env.Error)
	assert.Equal(t, []string{"tok-u-mgr1"}, repo.invalidated)
	require.Len(t, rr.Result().Cookies(), 1)
	assert.Less(t, rr.Result().Cookies()[0].MaxAge, 0)
}

func TestMeReturnsPermissions(t *testing.T) {
	router, _ := newRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-u-mgr1"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data struct {
			RoleLabel   string              `json:"role_label"`
			Permissions map[string][]string `json:"permissions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Branch Manager", body.Data.RoleLabel)
	assert.Equal(t, []string{"read", "create"}, body.Data.Permissions["categories_management"])
	assert.NotContains(t, body.Data.Permissions, "users_management")
}

func TestLoginPageRedirectsSignedInUsers(t *testing.T) {
	router, _ := newRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-u-mgr1"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Centro")
}
