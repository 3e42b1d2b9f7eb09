package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// RepositoryPort defines persistence required by the service.
type RepositoryPort interface {
	PostSale(ctx context.Context, p SalePosting) error
	ClientBranch(ctx context.Context, clientID string) (string, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// PostSale records one sale line. The procedure rejects the line when the
// branch does not hold enough stock.
func (r *Repository) PostSale(ctx context.Context, p SalePosting) error {
	var client *string
	if p.ClientID != "" {
		client = &p.ClientID
	}
	return db.CallResult(ctx, r.db, "process_sale_with_fifo",
		p.BranchID, p.Line.ProductID, client, p.Line.Quantity, p.Line.UnitPrice, p.Reference, p.UserID)
}

// ClientBranch returns the branch a client is registered at.
func (r *Repository) ClientBranch(ctx context.Context, clientID string) (string, error) {
	var branch string
	err := r.db.QueryRow(ctx, `SELECT COALESCE(branch_id::text, '') FROM clients WHERE id = $1`, clientID).Scan(&branch)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	return branch, err
}

var _ RepositoryPort = (*Repository)(nil)
