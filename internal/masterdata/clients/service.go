package clients

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns clients of the caller's effective branch.
func (s *Service) List(ctx context.Context, sess *internalShared.Session, filters shared.ListFilters) ([]Client, int, error) {
	branch, err := rbac.ScopeBranch(rbac.ParseRole(sess.Role), sess.BranchID, filters.BranchID)
	if err != nil {
		return nil, 0, err
	}
	filters.BranchID = branch
	return s.repo.List(ctx, filters)
}

// Save creates or updates a client inside the caller's effective branch.
func (s *Service) Save(ctx context.Context, sess *internalShared.Session, form ClientForm) (Client, error) {
	role := rbac.ParseRole(sess.Role)
	branch, err := rbac.ScopeBranch(role, sess.BranchID, form.BranchID)
	if err != nil {
		return Client{}, err
	}
	if branch == "" {
		return Client{}, internalShared.NewUserError(internalShared.MsgBranchRequired)
	}

	c := Client{
		ID:         form.ID,
		BranchID:   branch,
		Name:       strings.TrimSpace(form.Name),
		DocumentID: strings.TrimSpace(form.DocumentID),
		Email:      strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:      strings.TrimSpace(form.Phone),
		Address:    strings.TrimSpace(form.Address),
	}
	if c.Name == "" {
		return Client{}, internalShared.NewUserError(internalShared.MsgFieldRequired, "name")
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
		if err := s.repo.Create(ctx, c); err != nil {
			return Client{}, err
		}
		return c, nil
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		return Client{}, internalShared.NewUserError(internalShared.MsgFieldInvalid, "id")
	}
	if err := s.repo.Update(ctx, c, writeScope(role, sess.BranchID)); err != nil {
		return Client{}, err
	}
	return c, nil
}

// Delete removes a client. Branch roles can only delete their own branch's clients.
func (s *Service) Delete(ctx context.Context, sess *internalShared.Session, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return internalShared.NewUserError(internalShared.MsgFieldInvalid, "id")
	}
	role := rbac.ParseRole(sess.Role)
	if _, err := rbac.ScopeBranch(role, sess.BranchID, ""); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, writeScope(role, sess.BranchID))
}

// writeScope is the branch existing rows must belong to; empty for the administrator.
func writeScope(role rbac.Role, sessionBranch string) string {
	if rbac.CrossBranch(role) {
		return ""
	}
	return sessionBranch
}
