package sales

// SaleLine is one product sold, consumed from the oldest cost layers first.
type SaleLine struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// SaleBatch is the body of POST /api/sales. ClientID is optional for walk-in sales.
type SaleBatch struct {
	BranchID  string     `json:"branch_id"`
	ClientID  string     `json:"client_id"`
	Reference string     `json:"reference"`
	Lines     []SaleLine `json:"lines"`
}

// MaxBatchLines bounds a single posting.
const MaxBatchLines = 500

// SalePosting carries everything process_sale_with_fifo needs.
type SalePosting struct {
	BranchID  string
	ClientID  string
	Line      SaleLine
	Reference string
	UserID    string
}
