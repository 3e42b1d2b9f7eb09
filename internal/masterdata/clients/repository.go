package clients

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Repository persists clients. A non-empty scope restricts updates and
// deletes to rows of that branch.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error)
	Create(ctx context.Context, c Client) error
	Update(ctx context.Context, c Client, scope string) error
	Delete(ctx context.Context, id, scope string) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const clientColumns = `id, branch_id::text AS branch_id, name, COALESCE(document_id, '') AS document_id,
	COALESCE(email, '') AS email, COALESCE(phone, '') AS phone, COALESCE(address, '') AS address, created_at`

var sortColumns = map[string]string{"name": "name", "created": "created_at"}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error) {
	var where shared.Where
	if filters.BranchID != "" {
		where.Add("branch_id = ?", filters.BranchID)
	}
	where.Search(filters.Search, "name", "document_id", "email")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	page, args := where.Page(filters)
	rows, err := r.db.Query(ctx,
		`SELECT `+clientColumns+` FROM clients`+where.SQL()+shared.OrderBy(filters, sortColumns, "name")+page, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[Client])
	return items, total, err
}

func (r *repository) Create(ctx context.Context, c Client) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO clients (id, branch_id, name, document_id, email, phone, address) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.BranchID, c.Name, c.DocumentID, c.Email, c.Phone, c.Address)
	return err
}

func (r *repository) Update(ctx context.Context, c Client, scope string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE clients SET branch_id = $1, name = $2, document_id = $3, email = $4, phone = $5, address = $6
		 WHERE id = $7 AND ($8 = '' OR branch_id::text = $8)`,
		c.BranchID, c.Name, c.DocumentID, c.Email, c.Phone, c.Address, c.ID, scope)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id, scope string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND ($2 = '' OR branch_id::text = $2)`, id, scope)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}
