package products

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

type memRepo struct {
	mu       sync.Mutex
	upserted []string
	failSKU  string
}

func (m *memRepo) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return nil, 0, nil
}

func (m *memRepo) Create(ctx context.Context, p Product) error { return nil }

func (m *memRepo) Update(ctx context.Context, p Product) error { return nil }

func (m *memRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *memRepo) UpsertBySKU(ctx context.Context, p Product) error {
	if p.SKU == m.failSKU {
		return &pgconn.PgError{Code: "23503", Message: "insert or update on table \"products\" violates foreign key constraint"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, p.SKU)
	return nil
}

type recorder struct {
	posted, failed int
}

func (r *recorder) BatchLines(kind string, posted, failed int) {
	r.posted += posted
	r.failed += failed
}

func newService(repo *memRepo, rec *recorder) *Service {
	return NewService(repo, ServiceConfig{
		ImportConcurrency: 2,
		Messages:          internalShared.NewErrorTranslator("en", false),
		Metrics:           rec,
	})
}

func TestImportRejectsWholeBatchOnInvalidRow(t *testing.T) {
	repo := &memRepo{}
	report := newService(repo, &recorder{}).Import(context.Background(), []ProductForm{
		{SKU: "a-1", Name: "Agua"},
		{SKU: "", Name: "Sin SKU"},
		{SKU: "c-1", Name: "Café", Price: -1},
	})

	assert.True(t, report.Rejected)
	assert.Zero(t, report.Posted)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, 2, report.Errors[0].Line)
	assert.Equal(t, 3, report.Errors[1].Line)
	assert.Empty(t, repo.upserted)
}

func TestImportRejectsBlankRowsAfterTrim(t *testing.T) {
	repo := &memRepo{}
	rec := &recorder{}
	report := newService(repo, rec).Import(context.Background(), []ProductForm{
		{SKU: "A-1", Name: "Widget"},
		{SKU: "   ", Name: "   "},
	})

	assert.True(t, report.Rejected)
	assert.Zero(t, report.Posted)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, internalShared.LineError{Line: 2, Message: "line 2: sku is required"}, report.Errors[0])
	assert.Empty(t, repo.upserted)
	assert.Zero(t, rec.posted)
}

func TestImportReportsFailingRows(t *testing.T) {
	repo := &memRepo{failSKU: "B-2"}
	rec := &recorder{}
	report := newService(repo, rec).Import(context.Background(), []ProductForm{
		{SKU: "a-1", Name: "Agua"},
		{SKU: "b-2", Name: "Bebida", CategoryID: "7f1c2f7e-2f6e-4a8e-9c55-0d1f3a1b2c3d"},
		{SKU: "c-3", Name: "Café"},
	})

	assert.False(t, report.OK())
	assert.False(t, report.Rejected)
	assert.Equal(t, 2, report.Posted)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, internalShared.LineError{Line: 2, Message: internalShared.MsgForeignKey}, report.Errors[0])
	assert.ElementsMatch(t, []string{"A-1", "C-3"}, repo.upserted)
	assert.Equal(t, 2, rec.posted)
	assert.Equal(t, 1, rec.failed)
}

func TestSaveValidates(t *testing.T) {
	svc := newService(&memRepo{}, &recorder{})
	_, err := svc.Save(context.Background(), ProductForm{SKU: "x", Name: "y", Price: -5})
	var userErr *internalShared.UserError
	assert.True(t, errors.As(err, &userErr))

	p, err := svc.Save(context.Background(), ProductForm{SKU: " x-1 ", Name: "Thing"})
	require.NoError(t, err)
	assert.Equal(t, "X-1", p.SKU)
	assert.Equal(t, "unit", p.Unit)
	assert.NotEmpty(t, p.ID)
}
