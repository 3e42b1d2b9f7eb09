package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

const (
	branchOne = "11111111-1111-4111-8111-111111111111"
	branchTwo = "22222222-2222-4222-8222-222222222222"
	clientID  = "33333333-3333-4333-8333-333333333333"
)

type memRepo struct {
	listed  []shared.ListFilters
	created []Client
	scopes  []string
}

func (m *memRepo) List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error) {
	m.listed = append(m.listed, filters)
	return nil, 0, nil
}

func (m *memRepo) Create(ctx context.Context, c Client) error {
	m.created = append(m.created, c)
	return nil
}

func (m *memRepo) Update(ctx context.Context, c Client, scope string) error {
	m.scopes = append(m.scopes, scope)
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id, scope string) error {
	m.scopes = append(m.scopes, scope)
	return nil
}

func TestListIsScopedToSessionBranch(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	staff := &internalShared.Session{Role: string(rbac.RoleStaff), BranchID: branchOne}

	_, _, err := svc.List(context.Background(), staff, shared.ListFilters{BranchID: branchTwo})
	require.NoError(t, err)
	assert.Equal(t, branchOne, repo.listed[0].BranchID)

	admin := &internalShared.Session{Role: string(rbac.RoleAdmin)}
	_, _, err = svc.List(context.Background(), admin, shared.ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, repo.listed[1].BranchID)
}

func TestSaveAssignsEffectiveBranch(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	manager := &internalShared.Session{Role: string(rbac.RoleManager), BranchID: branchOne}

	c, err := svc.Save(context.Background(), manager, ClientForm{BranchID: branchTwo, Name: "Ferretería Sur"})
	require.NoError(t, err)
	assert.Equal(t, branchOne, c.BranchID)
	assert.Equal(t, branchOne, repo.created[0].BranchID)

	_, err = svc.Save(context.Background(), manager, ClientForm{ID: clientID, Name: "Ferretería Sur"})
	require.NoError(t, err)
	assert.Equal(t, []string{branchOne}, repo.scopes)
}

func TestAdminMustPickBranchOnCreate(t *testing.T) {
	svc := NewService(&memRepo{})
	admin := &internalShared.Session{Role: string(rbac.RoleAdmin)}

	_, err := svc.Save(context.Background(), admin, ClientForm{Name: "Cliente"})
	var userErr *internalShared.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, internalShared.MsgBranchRequired, userErr.Key)
}

func TestBranchRoleWithoutBranchFailsClosed(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	orphan := &internalShared.Session{Role: string(rbac.RoleDirector)}

	_, _, err := svc.List(context.Background(), orphan, shared.ListFilters{})
	assert.ErrorIs(t, err, rbac.ErrNoBranchScope)
	assert.ErrorIs(t, svc.Delete(context.Background(), orphan, clientID), rbac.ErrNoBranchScope)
	assert.Empty(t, repo.listed)
	assert.Empty(t, repo.scopes)
}
