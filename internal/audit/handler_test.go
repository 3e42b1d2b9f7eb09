package audit

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

type stubRepo struct {
	branch string
	limit  int
	calls  int
	rows   []Entry
}

func (s *stubRepo) AuditLogs(ctx context.Context, branchID string, limit int) ([]Entry, error) {
	s.calls++
	s.branch = branchID
	s.limit = limit
	return s.rows, nil
}

type tokenVerifier map[string]shared.SessionRecord

func (v tokenVerifier) VerifySession(ctx context.Context, token string) (*shared.SessionRecord, error) {
	rec, ok := v[token]
	if !ok {
		return nil, shared.ErrSessionInvalid
	}
	return &rec, nil
}

func newRouter(repo *stubRepo) http.Handler {
	messages := shared.NewErrorTranslator("en", false)
	sessions := shared.NewSessionResolver(tokenVerifier{
		"admin":    {Valid: true, UserID: "u0", Role: "0000"},
		"director": {Valid: true, UserID: "u1", Role: "0001", BranchID: "B1"},
		"manager":  {Valid: true, UserID: "u2", Role: "0002", BranchID: "B1"},
	}, shared.CookieConfig{}, nil)
	h := NewHandler(nil, NewService(repo), rbac.Middleware{Sessions: sessions, Messages: messages}, httpx.Responder{Messages: messages})
	r := chi.NewRouter()
	r.Route("/api/audit", h.MountRoutes)
	return r
}

func get(t *testing.T, h http.Handler, token, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuditRestrictedToAdminAndDirector(t *testing.T) {
	repo := &stubRepo{}
	r := newRouter(repo)

	assert.Equal(t, http.StatusForbidden, get(t, r, "manager", "/api/audit").Code)
	assert.Zero(t, repo.calls)

	assert.Equal(t, http.StatusOK, get(t, r, "director", "/api/audit").Code)
	assert.Equal(t, 1, repo.calls)
}

func TestDirectorIsPinnedToOwnBranch(t *testing.T) {
	repo := &stubRepo{}
	r := newRouter(repo)

	rr := get(t, r, "director", "/api/audit?branch_id=B2&limit=5")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "B1", repo.branch)
	assert.Equal(t, 5, repo.limit)

	rr = get(t, r, "admin", "/api/audit?branch_id=B2&limit=50000")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "B2", repo.branch)
	assert.Equal(t, MaxLimit, repo.limit)

	rr = get(t, r, "admin", "/api/audit")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, repo.branch)
	assert.Equal(t, DefaultLimit, repo.limit)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}

func TestInvalidLimit(t *testing.T) {
	rr := get(t, newRouter(&stubRepo{}), "admin", "/api/audit?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "limit is not valid.")
}

func TestExportCSV(t *testing.T) {
	name, details := "Ana", `qty 5, "recount"`
	repo := &stubRepo{rows: []Entry{{
		ID:       7,
		At:       time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		UserName: &name,
		Action:   "ADJUST",
		Entity:   "inventory",
		Details:  &details,
	}}}
	rr := get(t, newRouter(repo), "admin", "/api/audit/export.csv")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))

	records, err := csv.NewReader(strings.NewReader(rr.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"7", "2024-02-01T09:30:00Z", "Ana", "", "ADJUST", "inventory", "", details}, records[1])
}
