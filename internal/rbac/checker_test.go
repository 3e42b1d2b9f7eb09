package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("0000"))
	assert.Equal(t, RoleStaff, ParseRole("0003"))
	assert.Equal(t, RoleUnknown, ParseRole("0004"))
	assert.Equal(t, RoleUnknown, ParseRole("admin"))
	assert.Equal(t, RoleUnknown, ParseRole(""))
	assert.False(t, RoleUnknown.Known())
	assert.True(t, RoleManager.Known())
}

func TestUnknownRolesFailClosed(t *testing.T) {
	for _, code := range []string{"", "9999", "0000 ", "ADMIN", "00000", "0"} {
		c := NewChecker(code)
		for _, res := range Resources() {
			for _, act := range Actions() {
				assert.Falsef(t, c.Can(res, act), "role %q must not hold %s.%s", code, res, act)
			}
			assert.False(t, c.CanAny(res, Actions()...))
		}
		assert.False(t, c.IsSystemAdmin())
		assert.Empty(t, c.AllPermissions())
	}
}

func TestAdminIsSupersetOfEveryRole(t *testing.T) {
	admin := NewChecker(string(RoleAdmin))
	for _, role := range Roles() {
		for _, p := range NewChecker(string(role)).AllPermissions() {
			assert.Truef(t, admin.Can(p.Resource, p.Action), "admin lacks %s held by %s", p, role)
		}
	}
}

func TestOnlyAdminTouchesUsersAndBranches(t *testing.T) {
	for _, role := range []Role{RoleDirector, RoleManager, RoleStaff} {
		c := NewChecker(string(role))
		assert.False(t, c.CanAny(ResourceUsers, Actions()...), role)
		assert.False(t, c.CanAny(ResourceBranches, Actions()...), role)
	}
	admin := NewChecker(string(RoleAdmin))
	assert.True(t, admin.CanAll(ResourceUsers, Actions()...))
	assert.True(t, admin.CanAll(ResourceBranches, Actions()...))
}

func TestIsSystemAdmin(t *testing.T) {
	for _, role := range Roles() {
		assert.Equal(t, role == RoleAdmin, NewChecker(string(role)).IsSystemAdmin(), role)
	}
}

func TestCanAnyCanAll(t *testing.T) {
	manager := NewChecker(string(RoleManager))
	assert.True(t, manager.CanAny(ResourceProducts, ActionDelete, ActionUpdate))
	assert.False(t, manager.CanAll(ResourceProducts, ActionDelete, ActionUpdate))
	assert.True(t, manager.CanAll(ResourceProducts, ActionRead, ActionCreate, ActionUpdate))
	assert.False(t, manager.CanAny(ResourceProducts))
	assert.True(t, manager.CanAll(ResourceProducts))
}

func TestStaffPermissions(t *testing.T) {
	staff := NewChecker(string(RoleStaff))
	assert.True(t, staff.Can(ResourceTransactions, ActionCreate))
	assert.False(t, staff.Can(ResourceTransactions, ActionUpdate))
	assert.True(t, staff.Can(ResourceClients, ActionCreate))
	assert.False(t, staff.Can(ResourceProducts, ActionCreate))
	assert.True(t, staff.Can(ResourceInventory, ActionRead))
}

func TestAllPermissionsIsDefensiveCopy(t *testing.T) {
	c := NewChecker(string(RoleStaff))
	perms := c.AllPermissions()
	require.NotEmpty(t, perms)
	before := len(perms)
	perms[0] = Permission{Resource: ResourceUsers, Action: ActionDelete}
	_ = append(perms, Permission{Resource: ResourceBranches, Action: ActionDelete})

	assert.False(t, c.Can(ResourceUsers, ActionDelete))
	assert.False(t, NewChecker(string(RoleStaff)).Can(ResourceBranches, ActionDelete))
	assert.Len(t, c.AllPermissions(), before)
	assert.NotEqual(t, Permission{Resource: ResourceUsers, Action: ActionDelete}, c.AllPermissions()[0])
}

func TestAllPermissionsOrder(t *testing.T) {
	perms := NewChecker(string(RoleAdmin)).AllPermissions()
	require.NotEmpty(t, perms)
	assert.Equal(t, Permission{Resource: ResourceUsers, Action: ActionRead}, perms[0])
	assert.Equal(t, "users_management.read", perms[0].String())
	assert.Equal(t, perms, NewChecker(string(RoleAdmin)).AllPermissions())
}

func TestResourceActions(t *testing.T) {
	actions := NewChecker(string(RoleManager)).ResourceActions()
	assert.Equal(t, []Action{ActionRead, ActionCreate}, actions[ResourceCategories])
	_, ok := actions[ResourceUsers]
	assert.False(t, ok)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Administrator", RoleLabel(RoleAdmin))
	assert.Equal(t, "Unknown", RoleLabel(ParseRole("x")))
	assert.Equal(t, "help-circle", RoleIcon(RoleUnknown))
	assert.Equal(t, "Inventory", ResourceLabel(ResourceInventory))
}
