package categories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error)
	Create(ctx context.Context, c Category) error
	Update(ctx context.Context, c Category) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

var sortColumns = map[string]string{"code": "code", "name": "name"}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	var where shared.Where
	where.Search(filters.Search, "name", "code")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	page, args := where.Page(filters)
	rows, err := r.db.Query(ctx,
		`SELECT id, code, name, COALESCE(description, '') AS description FROM categories`+
			where.SQL()+shared.OrderBy(filters, sortColumns, "name")+page, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[Category])
	return items, total, err
}

func (r *repository) Create(ctx context.Context, c Category) error {
	_, err := r.db.Exec(ctx, `INSERT INTO categories (id, code, name, description) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Code, c.Name, c.Description)
	return err
}

func (r *repository) Update(ctx context.Context, c Category) error {
	tag, err := r.db.Exec(ctx, `UPDATE categories SET code = $1, name = $2, description = $3 WHERE id = $4`,
		c.Code, c.Name, c.Description, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}
