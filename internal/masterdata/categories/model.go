package categories

// Category represents a product category
type Category struct {
	ID          string `json:"id" db:"id"`
	Code        string `json:"code" db:"code"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// CategoryForm is the body of POST /api/categories. An empty ID creates a category.
type CategoryForm struct {
	ID          string `json:"id" validate:"omitempty,uuid"`
	Code        string `json:"code" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
}
