package users

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, filters shared.ListFilters) ([]User, int, error)
	CreateUser(ctx context.Context, u User, passwordHash string) error
	UpdateUser(ctx context.Context, u User, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

const userColumns = `u.id, u.username, u.full_name, COALESCE(u.email, '') AS email, u.role,
	COALESCE(u.branch_id::text, '') AS branch_id, COALESCE(b.name, '') AS branch_name, u.is_active, u.created_at`

var sortColumns = map[string]string{"username": "u.username", "name": "u.full_name", "role": "u.role"}

// ListUsers returns users matching the filters.
func (r *Repository) ListUsers(ctx context.Context, filters shared.ListFilters) ([]User, int, error) {
	var where shared.Where
	where.Search(filters.Search, "u.username", "u.full_name", "u.email")
	if filters.BranchID != "" {
		where.Add("u.branch_id = ?", filters.BranchID)
	}
	if filters.IsActive != nil {
		where.Add("u.is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	page, args := where.Page(filters)
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users u LEFT JOIN branches b ON b.id = u.branch_id`+
			where.SQL()+shared.OrderBy(filters, sortColumns, "u.username")+page, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[User])
	return items, total, err
}

// CreateUser inserts a user with an already hashed password.
func (r *Repository) CreateUser(ctx context.Context, u User, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, full_name, email, role, branch_id, password_hash, is_active)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`,
		u.ID, u.Username, u.FullName, u.Email, u.Role, nullable(u.BranchID), passwordHash, u.IsActive)
	return err
}

// UpdateUser updates profile fields and, when passwordHash is set, the password.
func (r *Repository) UpdateUser(ctx context.Context, u User, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET username = $1, full_name = $2, email = NULLIF($3, ''), role = $4, branch_id = $5,
		 is_active = $6, password_hash = COALESCE(NULLIF($7, ''), password_hash), updated_at = now()
		 WHERE id = $8`,
		u.Username, u.FullName, u.Email, u.Role, nullable(u.BranchID), u.IsActive, passwordHash, u.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

// DeleteUser removes the account.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ RepositoryPort = (*Repository)(nil)
