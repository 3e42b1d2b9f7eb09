package inventory

// StockStatus is one row of get_inventory_status.
type StockStatus struct {
	BranchID     string  `json:"branch_id" db:"branch_id"`
	BranchName   string  `json:"branch_name" db:"branch_name"`
	ProductID    string  `json:"product_id" db:"product_id"`
	SKU          string  `json:"sku" db:"sku"`
	ProductName  string  `json:"product_name" db:"product_name"`
	CategoryName string  `json:"category_name" db:"category_name"`
	Quantity     float64 `json:"quantity" db:"quantity"`
	AverageCost  float64 `json:"average_cost" db:"average_cost"`
	TotalValue   float64 `json:"total_value" db:"total_value"`
	MinStock     float64 `json:"min_stock" db:"min_stock"`
	LowStock     bool    `json:"low_stock" db:"-"`
}

// Summary aggregates a status listing.
type Summary struct {
	Products   int     `json:"products"`
	Units      float64 `json:"units"`
	TotalValue float64 `json:"total_value"`
	LowStock   int     `json:"low_stock"`
}

// StatusReport is the response of GET /api/inventory/status. BranchID is the
// effective branch the query ran against; empty means all branches.
type StatusReport struct {
	BranchID string        `json:"branch_id"`
	Items    []StockStatus `json:"items"`
	Summary  Summary       `json:"summary"`
}

// AdjustmentLine is one manual stock correction. Reason is trimmed before
// validation.
type AdjustmentLine struct {
	ProductID     string  `json:"product_id" validate:"required,uuid"`
	QuantityDelta float64 `json:"quantity_delta" validate:"required,ne=0"`
	Reason        string  `json:"reason" validate:"required,max=255"`
}

// AdjustmentBatch is the body of POST /api/adjustments.
type AdjustmentBatch struct {
	BranchID string           `json:"branch_id"`
	Lines    []AdjustmentLine `json:"lines"`
}

// MaxBatchLines bounds a single posting.
const MaxBatchLines = 500

func summarize(items []StockStatus) Summary {
	var s Summary
	for i := range items {
		item := &items[i]
		item.LowStock = item.MinStock > 0 && item.Quantity <= item.MinStock
		s.Products++
		s.Units += item.Quantity
		s.TotalValue += item.TotalValue
		if item.LowStock {
			s.LowStock++
		}
	}
	return s
}
