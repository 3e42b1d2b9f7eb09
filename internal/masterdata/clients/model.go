package clients

import "time"

// Client is a customer registered at one branch.
type Client struct {
	ID         string    `json:"id" db:"id"`
	BranchID   string    `json:"branch_id" db:"branch_id"`
	Name       string    `json:"name" db:"name"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Address    string    `json:"address" db:"address"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ClientForm is the body of POST /api/clients. BranchID is only honoured for
// the administrator; branch roles always save into their own branch.
type ClientForm struct {
	ID         string `json:"id" validate:"omitempty,uuid"`
	BranchID   string `json:"branch_id" validate:"omitempty,uuid"`
	Name       string `json:"name" validate:"required,max=160"`
	DocumentID string `json:"document_id" validate:"max=40"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"max=40"`
	Address    string `json:"address" validate:"max=255"`
}
