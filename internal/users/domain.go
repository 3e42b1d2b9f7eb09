package users

import "time"

// User represents a user account for management.
type User struct {
	ID         string    `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	FullName   string    `json:"full_name" db:"full_name"`
	Email      string    `json:"email" db:"email"`
	Role       string    `json:"role" db:"role"`
	BranchID   string    `json:"branch_id" db:"branch_id"`
	BranchName string    `json:"branch_name" db:"branch_name"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// UserForm is the body of POST /api/users. Password is required when
// creating and optional when updating.
type UserForm struct {
	ID       string `json:"id" validate:"omitempty,uuid"`
	Username string `json:"username" validate:"required,max=60"`
	FullName string `json:"full_name" validate:"required,max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required,oneof=0000 0001 0002 0003"`
	BranchID string `json:"branch_id" validate:"omitempty,uuid"`
	Password string `json:"password"`
	IsActive *bool  `json:"is_active"`
}

// Password length bounds. bcrypt only accepts up to 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)
