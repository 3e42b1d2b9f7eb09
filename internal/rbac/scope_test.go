package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveBranchRestrictedRolesIgnoreRequest(t *testing.T) {
	requests := []string{"", "B1", "B2", "B999", "all"}
	for _, role := range []Role{RoleDirector, RoleManager, RoleStaff, RoleUnknown, ParseRole("zz")} {
		for _, requested := range requests {
			assert.Equalf(t, "B1", EffectiveBranch(role, "B1", requested), "role %q requested %q", role, requested)
		}
	}
}

func TestEffectiveBranchAdminUsesRequest(t *testing.T) {
	for _, requested := range []string{"", "B1", "B2"} {
		assert.Equal(t, requested, EffectiveBranch(RoleAdmin, "B1", requested))
		assert.Equal(t, requested, EffectiveBranch(RoleAdmin, "", requested))
	}
}

func TestScopeBranchFailsClosedWithoutSessionBranch(t *testing.T) {
	_, err := ScopeBranch(RoleManager, "", "B2")
	require.ErrorIs(t, err, ErrNoBranchScope)

	_, err = ScopeBranch(RoleUnknown, "", "")
	require.ErrorIs(t, err, ErrNoBranchScope)

	branch, err := ScopeBranch(RoleAdmin, "", "")
	require.NoError(t, err)
	assert.Empty(t, branch)

	branch, err = ScopeBranch(RoleStaff, "B1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "B1", branch)
}

func TestCrossBranch(t *testing.T) {
	assert.True(t, CrossBranch(RoleAdmin))
	assert.False(t, CrossBranch(RoleDirector))
}
