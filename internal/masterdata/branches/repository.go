package branches

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/auth"
	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Branch, int, error)
	Create(ctx context.Context, branch Branch) error
	Update(ctx context.Context, branch Branch) error
	Delete(ctx context.Context, id string) error
	ActiveOptions(ctx context.Context) ([]auth.BranchOption, error)
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const branchColumns = `id, code, name, COALESCE(address, '') AS address, COALESCE(phone, '') AS phone, is_active, created_at, updated_at`

var sortColumns = map[string]string{"code": "code", "name": "name", "created": "created_at"}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Branch, int, error) {
	var where shared.Where
	where.Search(filters.Search, "name", "code")
	if filters.IsActive != nil {
		where.Add("is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM branches`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := where.Page(filters)
	query := `SELECT ` + branchColumns + ` FROM branches` + where.SQL() + shared.OrderBy(filters, sortColumns, "name") + page
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[Branch])
	return items, total, err
}

func (r *repository) Create(ctx context.Context, b Branch) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO branches (id, code, name, address, phone, is_active) VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Code, b.Name, b.Address, b.Phone, b.IsActive)
	return err
}

func (r *repository) Update(ctx context.Context, b Branch) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE branches SET code = $1, name = $2, address = $3, phone = $4, is_active = $5, updated_at = now() WHERE id = $6`,
		b.Code, b.Name, b.Address, b.Phone, b.IsActive, b.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func (r *repository) ActiveOptions(ctx context.Context) ([]auth.BranchOption, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name FROM branches WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (auth.BranchOption, error) {
		var o auth.BranchOption
		err := row.Scan(&o.ID, &o.Code, &o.Name)
		return o, err
	})
}
