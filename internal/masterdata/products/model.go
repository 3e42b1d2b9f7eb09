package products

import (
	"time"
)

// Product represents a product entity
type Product struct {
	ID         string    `json:"id" db:"id"`
	SKU        string    `json:"sku" db:"sku"`
	Name       string    `json:"name" db:"name"`
	CategoryID string    `json:"category_id" db:"category_id"`
	Unit       string    `json:"unit" db:"unit"`
	Price      float64   `json:"price" db:"price"`
	MinStock   float64   `json:"min_stock" db:"min_stock"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
