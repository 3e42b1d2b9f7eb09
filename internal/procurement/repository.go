package procurement

import (
	"context"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
)

// PurchasePosting carries everything process_purchase_with_layers needs.
type PurchasePosting struct {
	BranchID  string
	Line      PurchaseLine
	Supplier  string
	Reference string
	UserID    string
}

// RepositoryPort defines persistence required by the service.
type RepositoryPort interface {
	PostPurchase(ctx context.Context, p PurchasePosting) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// PostPurchase records one purchase line as a new cost layer.
func (r *Repository) PostPurchase(ctx context.Context, p PurchasePosting) error {
	return db.CallResult(ctx, r.db, "process_purchase_with_layers",
		p.BranchID, p.Line.ProductID, p.Line.Quantity, p.Line.UnitCost, p.Supplier, p.Reference, p.UserID)
}

var _ RepositoryPort = (*Repository)(nil)
