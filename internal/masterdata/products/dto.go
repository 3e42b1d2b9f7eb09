package products

import "strings"

// ProductForm is the body of POST /api/products and one row of an import.
type ProductForm struct {
	ID         string  `json:"id" validate:"omitempty,uuid"`
	SKU        string  `json:"sku" validate:"required,max=40"`
	Name       string  `json:"name" validate:"required,max=160"`
	CategoryID string  `json:"category_id" validate:"omitempty,uuid"`
	Unit       string  `json:"unit" validate:"max=20"`
	Price      float64 `json:"price" validate:"gte=0"`
	MinStock   float64 `json:"min_stock" validate:"gte=0"`
	IsActive   *bool   `json:"is_active"`
}

// ImportRequest is the body of POST /api/products/import. Rows arrive already
// parsed from the uploaded sheet.
type ImportRequest struct {
	Rows []ProductForm `json:"rows"`
}

// MaxImportRows bounds a single import.
const MaxImportRows = 2000

func (f ProductForm) toProduct() Product {
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	unit := strings.TrimSpace(f.Unit)
	if unit == "" {
		unit = "unit"
	}
	return Product{
		ID:         f.ID,
		SKU:        strings.ToUpper(strings.TrimSpace(f.SKU)),
		Name:       strings.TrimSpace(f.Name),
		CategoryID: f.CategoryID,
		Unit:       unit,
		Price:      f.Price,
		MinStock:   f.MinStock,
		IsActive:   active,
	}
}
