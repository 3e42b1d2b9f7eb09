package users

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

const branchOne = "11111111-1111-4111-8111-111111111111"

type memRepo struct {
	created []User
	hashes  []string
	deleted []string
}

func (m *memRepo) ListUsers(ctx context.Context, filters shared.ListFilters) ([]User, int, error) {
	return m.created, len(m.created), nil
}

func (m *memRepo) CreateUser(ctx context.Context, u User, hash string) error {
	m.created = append(m.created, u)
	m.hashes = append(m.hashes, hash)
	return nil
}

func (m *memRepo) UpdateUser(ctx context.Context, u User, hash string) error {
	m.hashes = append(m.hashes, hash)
	return nil
}

func (m *memRepo) DeleteUser(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func newService(repo *memRepo) *Service {
	svc := NewService(repo)
	svc.cost = bcrypt.MinCost
	return svc
}

func userKey(t *testing.T, err error) string {
	t.Helper()
	var userErr *internalShared.UserError
	require.ErrorAs(t, err, &userErr)
	return userErr.Key
}

func TestSaveUserHashesPassword(t *testing.T) {
	repo := &memRepo{}
	u, err := newService(repo).SaveUser(context.Background(), UserForm{
		Username: " MGR1 ", FullName: "Manager One", Role: "0002", BranchID: branchOne, Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "mgr1", u.Username)
	assert.NotEmpty(t, u.ID)
	require.Len(t, repo.hashes, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[0]), []byte("s3cret-pass")))
}

func TestSaveUserBranchRules(t *testing.T) {
	svc := newService(&memRepo{})

	_, err := svc.SaveUser(context.Background(), UserForm{Username: "s", FullName: "S", Role: "0003", Password: "long-enough"})
	assert.Equal(t, internalShared.MsgAdminBranch, userKey(t, err))

	admin, err := svc.SaveUser(context.Background(), UserForm{Username: "a", FullName: "A", Role: "0000", BranchID: branchOne, Password: "long-enough"})
	require.NoError(t, err)
	assert.Empty(t, admin.BranchID)

	_, err = svc.SaveUser(context.Background(), UserForm{Username: "x", FullName: "X", Role: "0009", Password: "long-enough"})
	assert.Equal(t, internalShared.MsgFieldInvalid, userKey(t, err))
}

func TestSaveUserPasswordRules(t *testing.T) {
	repo := &memRepo{}
	svc := newService(repo)

	_, err := svc.SaveUser(context.Background(), UserForm{Username: "s", FullName: "S", Role: "0003", BranchID: branchOne})
	assert.Equal(t, internalShared.MsgFieldRequired, userKey(t, err))

	_, err = svc.SaveUser(context.Background(), UserForm{Username: "s", FullName: "S", Role: "0003", BranchID: branchOne, Password: "short"})
	assert.Equal(t, internalShared.MsgPasswordShort, userKey(t, err))

	_, err = svc.SaveUser(context.Background(), UserForm{
		Username: "s", FullName: "S", Role: "0003", BranchID: branchOne, Password: strings.Repeat("a", 80),
	})
	assert.Equal(t, internalShared.MsgPasswordLong, userKey(t, err))
	assert.Equal(t, http.StatusBadRequest, httpx.StatusFor(err))

	_, err = svc.SaveUser(context.Background(), UserForm{
		ID: "44444444-4444-4444-8444-444444444444", Username: "s", FullName: "S", Role: "0003", BranchID: branchOne,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, repo.hashes)
}

func TestDeleteUserRefusesSelf(t *testing.T) {
	repo := &memRepo{}
	id := "44444444-4444-4444-8444-444444444444"
	err := newService(repo).DeleteUser(context.Background(), id, id)
	assert.Equal(t, internalShared.MsgSelfDelete, userKey(t, err))
	assert.Empty(t, repo.deleted)
}
