package procurement

// PurchaseLine is one product received from a supplier.
type PurchaseLine struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitCost  float64 `json:"unit_cost" validate:"gte=0"`
}

// PurchaseBatch is the body of POST /api/purchases. Every line is posted as
// its own FIFO layer under the same supplier and reference.
type PurchaseBatch struct {
	BranchID  string         `json:"branch_id"`
	Supplier  string         `json:"supplier"`
	Reference string         `json:"reference"`
	Lines     []PurchaseLine `json:"lines"`
}

// MaxBatchLines bounds a single posting.
const MaxBatchLines = 500
