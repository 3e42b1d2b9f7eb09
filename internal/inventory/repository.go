package inventory

import (
	"context"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
)

// RepositoryPort abstracts the inventory procedures.
type RepositoryPort interface {
	InventoryStatus(ctx context.Context, branchID string) ([]StockStatus, error)
	AdjustInventory(ctx context.Context, branchID string, line AdjustmentLine, userID string) error
}

// Repository calls the inventory stored procedures.
type Repository struct {
	db db.Querier
}

// NewRepository creates a new repository instance.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// InventoryStatus lists stock per product. An empty branch lists every branch.
func (r *Repository) InventoryStatus(ctx context.Context, branchID string) ([]StockStatus, error) {
	var branch *string
	if branchID != "" {
		branch = &branchID
	}
	return db.CallInto[StockStatus](ctx, r.db, "get_inventory_status", branch)
}

// AdjustInventory posts a single adjustment.
func (r *Repository) AdjustInventory(ctx context.Context, branchID string, line AdjustmentLine, userID string) error {
	return db.CallResult(ctx, r.db, "adjust_inventory", branchID, line.ProductID, line.QuantityDelta, line.Reason, userID)
}

var _ RepositoryPort = (*Repository)(nil)
