package auth

import "time"

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	BranchID string `json:"branch_id" validate:"required"`
}

// Account is the identity verify_login reports for matching credentials.
type Account struct {
	UserID     string
	FullName   string
	Role       string
	BranchID   string
	BranchName string
}

// BranchOption is an entry of the public branch list shown on the login form.
type BranchOption struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type loginRow struct {
	Success    bool    `db:"success"`
	Message    *string `db:"message"`
	UserID     *string `db:"user_id"`
	FullName   *string `db:"full_name"`
	Role       *string `db:"role"`
	BranchID   *string `db:"branch_id"`
	BranchName *string `db:"branch_name"`
}

type sessionRow struct {
	Valid      bool       `db:"valid"`
	UserID     *string    `db:"user_id"`
	FullName   *string    `db:"full_name"`
	Role       *string    `db:"role"`
	BranchID   *string    `db:"branch_id"`
	BranchName *string    `db:"branch_name"`
	ExpiresAt  *time.Time `db:"expires_at"`
}

type tokenRow struct {
	Token string `db:"token"`
}

type cleanupRow struct {
	Deleted int64 `db:"deleted"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
