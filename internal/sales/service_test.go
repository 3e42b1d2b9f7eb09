package sales

import (
	"context"
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

const (
	prodA  = "aaaaaaaa-1111-4111-8111-aaaaaaaaaaaa"
	prodB  = "bbbbbbbb-1111-4111-8111-bbbbbbbbbbbb"
	client = "cccccccc-1111-4111-8111-cccccccccccc"
)

const otherClient = "dddddddd-1111-4111-8111-dddddddddddd"

type stubRepo struct {
	posted []SalePosting
	stock  map[string]float64
}

// Clients known to the stub: client is registered at B1, otherClient at B2.
func (s *stubRepo) ClientBranch(ctx context.Context, clientID string) (string, error) {
	switch clientID {
	case client:
		return "B1", nil
	case otherClient:
		return "B2", nil
	default:
		return "", shared.ErrNotFound
	}
}

func (s *stubRepo) PostSale(ctx context.Context, p SalePosting) error {
	if s.stock[p.Line.ProductID] < p.Line.Quantity {
		return &shared.Rejected{Procedure: "process_sale_with_fifo", Message: "Insufficient stock for product"}
	}
	s.stock[p.Line.ProductID] -= p.Line.Quantity
	s.posted = append(s.posted, p)
	return nil
}

func newService(repo *stubRepo) *Service {
	svc := NewService(repo, shared.NewErrorTranslator("en", false), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSaleConsumesStockLineByLine(t *testing.T) {
	repo := &stubRepo{stock: map[string]float64{prodA: 5, prodB: 1}}
	sess := &shared.Session{UserID: "u2", Role: "0002", BranchID: "B1"}

	report, err := newService(repo).PostSales(context.Background(), sess, SaleBatch{
		BranchID: "B9",
		ClientID: client,
		Lines: []SaleLine{
			{ProductID: prodA, Quantity: 3, UnitPrice: 10},
			{ProductID: prodB, Quantity: 2, UnitPrice: 7},
			{ProductID: prodA, Quantity: 2, UnitPrice: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Posted)
	assert.Equal(t, []shared.LineError{{Line: 2, Message: shared.MsgInsufficientStock}}, report.Errors)
	assert.Zero(t, repo.stock[prodA])

	require.Len(t, repo.posted, 2)
	assert.Equal(t, "B1", repo.posted[0].BranchID)
	assert.Equal(t, client, repo.posted[0].ClientID)
	assert.True(t, strings.HasPrefix(repo.posted[0].Reference, "SAL-20240501-"))
}

func TestInvalidClientRejected(t *testing.T) {
	repo := &stubRepo{stock: map[string]float64{prodA: 5}}
	sess := &shared.Session{UserID: "u3", Role: "0003", BranchID: "B1"}
	_, err := newService(repo).PostSales(context.Background(), sess, SaleBatch{
		ClientID: "walk-in",
		Lines:    []SaleLine{{ProductID: prodA, Quantity: 1}},
	})
	var userErr *shared.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, shared.MsgFieldInvalid, userErr.Key)
	assert.Empty(t, repo.posted)
}

func TestClientFromAnotherBranchRejected(t *testing.T) {
	repo := &stubRepo{stock: map[string]float64{prodA: 5}}
	sess := &shared.Session{UserID: "u2", Role: "0002", BranchID: "B1"}
	_, err := newService(repo).PostSales(context.Background(), sess, SaleBatch{
		ClientID: otherClient,
		Lines:    []SaleLine{{ProductID: prodA, Quantity: 1}},
	})
	var userErr *shared.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, shared.MsgBranchMismatch, userErr.Key)
	assert.Empty(t, repo.posted)

	_, err = newService(repo).PostSales(context.Background(), sess, SaleBatch{
		ClientID: "eeeeeeee-1111-4111-8111-eeeeeeeeeeee",
		Lines:    []SaleLine{{ProductID: prodA, Quantity: 1}},
	})
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, shared.MsgFieldInvalid, userErr.Key)
	assert.Empty(t, repo.posted)
}

func TestZeroQuantityRejectsBatch(t *testing.T) {
	repo := &stubRepo{stock: map[string]float64{prodA: 5}}
	sess := &shared.Session{UserID: "u3", Role: "0003", BranchID: "B1"}
	report, err := newService(repo).PostSales(context.Background(), sess, SaleBatch{
		Lines: []SaleLine{{ProductID: prodA, Quantity: 1}, {ProductID: prodA}},
	})
	require.NoError(t, err)
	assert.True(t, report.Rejected)
	assert.Equal(t, []shared.LineError{{Line: 2, Message: "line 2: quantity is required"}}, report.Errors)
	assert.Empty(t, repo.posted)
}

func TestNoBranchOnSessionFailsClosed(t *testing.T) {
	_, err := newService(&stubRepo{}).PostSales(context.Background(),
		&shared.Session{UserID: "u3", Role: "0003"},
		SaleBatch{BranchID: "B1", Lines: []SaleLine{{ProductID: prodA, Quantity: 1}}})
	require.ErrorIs(t, err, shared.ErrNoBranchScope)
}

type roleVerifier struct{}

func (roleVerifier) VerifySession(ctx context.Context, token string) (*shared.SessionRecord, error) {
	return &shared.SessionRecord{Valid: true, UserID: "u", Role: token, BranchID: "B1"}, nil
}

func TestSalesEndpointPartialFailure(t *testing.T) {
	repo := &stubRepo{stock: map[string]float64{prodA: 1}}
	messages := shared.NewErrorTranslator("en", false)
	sessions := shared.NewSessionResolver(roleVerifier{}, shared.CookieConfig{}, nil)
	h := NewHandler(nil, newService(repo), rbac.Middleware{Sessions: sessions, Messages: messages}, httpx.Responder{Messages: messages})
	r := chi.NewRouter()
	r.Route("/api/sales", h.MountRoutes)

	body := `{"lines":[{"product_id":"` + prodA + `","quantity":1,"unit_price":5},{"product_id":"` + prodB + `","quantity":1,"unit_price":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "0003"})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
	assert.Contains(t, rr.Body.String(), "1 of 2 lines could not be posted.")
	assert.Len(t, repo.posted, 1)
}
