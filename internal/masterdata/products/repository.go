package products

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	UpsertBySKU(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const productColumns = `id, sku, name, COALESCE(category_id::text, '') AS category_id, unit, price, min_stock, is_active, created_at, updated_at`

var sortColumns = map[string]string{"sku": "sku", "name": "name", "price": "price", "created": "created_at"}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	var where shared.Where
	where.Search(filters.Search, "name", "sku")
	if filters.CategoryID != "" {
		where.Add("category_id = ?", filters.CategoryID)
	}
	if filters.IsActive != nil {
		where.Add("is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	page, args := where.Page(filters)
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products`+where.SQL()+shared.OrderBy(filters, sortColumns, "name")+page, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	return items, total, err
}

func (r *repository) Create(ctx context.Context, p Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, sku, name, category_id, unit, price, min_stock, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.SKU, p.Name, nullable(p.CategoryID), p.Unit, p.Price, p.MinStock, p.IsActive)
	return err
}

func (r *repository) Update(ctx context.Context, p Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET sku = $1, name = $2, category_id = $3, unit = $4, price = $5, min_stock = $6,
		 is_active = $7, updated_at = now() WHERE id = $8`,
		p.SKU, p.Name, nullable(p.CategoryID), p.Unit, p.Price, p.MinStock, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

// UpsertBySKU inserts the product or refreshes the one with the same SKU.
func (r *repository) UpsertBySKU(ctx context.Context, p Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, sku, name, category_id, unit, price, min_stock, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, category_id = EXCLUDED.category_id,
		   unit = EXCLUDED.unit, price = EXCLUDED.price, min_stock = EXCLUDED.min_stock,
		   is_active = EXCLUDED.is_active, updated_at = now()`,
		p.ID, p.SKU, p.Name, nullable(p.CategoryID), p.Unit, p.Price, p.MinStock, p.IsActive)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
