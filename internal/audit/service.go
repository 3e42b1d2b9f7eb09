package audit

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Service applies branch scope to audit reads.
type Service struct {
	repo Repository
}

// NewService creates the audit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Logs returns entries visible to sess. Only administrators may choose the
// branch; directors always read their own.
func (s *Service) Logs(ctx context.Context, sess *shared.Session, filters Filters) ([]Entry, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	branch, err := rbac.ScopeBranch(rbac.ParseRole(sess.Role), sess.BranchID, filters.BranchID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.AuditLogs(ctx, branch, filters.limit())
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Recent returns the latest entries for the dashboard.
func (s *Service) Recent(ctx context.Context, sess *shared.Session) ([]Entry, error) {
	return s.Logs(ctx, sess, Filters{Limit: RecentLimit})
}
