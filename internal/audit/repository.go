package audit

import (
	"context"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
)

// Repository reads audit rows.
type Repository interface {
	AuditLogs(ctx context.Context, branchID string, limit int) ([]Entry, error)
}

// PGRepository calls get_audit_logs.
type PGRepository struct {
	db db.Querier
}

// NewRepository constructs a PGRepository.
func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{db: q}
}

// AuditLogs returns the newest entries first. An empty branch reads every branch.
func (r *PGRepository) AuditLogs(ctx context.Context, branchID string, limit int) ([]Entry, error) {
	var branch *string
	if branchID != "" {
		branch = &branchID
	}
	return db.CallInto[Entry](ctx, r.db, "get_audit_logs", branch, limit)
}

var _ Repository = (*PGRepository)(nil)
