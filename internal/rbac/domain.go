// Package rbac holds the static role model: which role may do what on which
// resource, and which branch a role is allowed to see.
package rbac

import "github.com/odyssey-erp/odyssey-stock/internal/shared"

// Role identifies one of the four fixed account roles.
type Role string

// Known roles ordered by privilege. RoleUnknown is the fail-closed fallback
// for any code that is not recognised.
const (
	RoleAdmin    Role = "0000"
	RoleDirector Role = "0001"
	RoleManager  Role = "0002"
	RoleStaff    Role = "0003"
	RoleUnknown  Role = ""
)

// ParseRole maps a raw role code to a Role. Unrecognised codes become RoleUnknown.
func ParseRole(code string) Role {
	switch Role(code) {
	case RoleAdmin, RoleDirector, RoleManager, RoleStaff:
		return Role(code)
	default:
		return RoleUnknown
	}
}

// Known reports whether r is one of the four fixed roles.
func (r Role) Known() bool {
	return ParseRole(string(r)) != RoleUnknown
}

// Roles lists the known roles in privilege order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleDirector, RoleManager, RoleStaff}
}

// Resource names a protected area of the application.
type Resource string

const (
	ResourceUsers        Resource = "users_management"
	ResourceBranches     Resource = "branches_management"
	ResourceClients      Resource = "clients_management"
	ResourceProducts     Resource = "products_management"
	ResourceCategories   Resource = "categories_management"
	ResourceInventory    Resource = "inventory_view"
	ResourceTransactions Resource = "transactions_management"
)

// Resources lists every resource in display order.
func Resources() []Resource {
	return []Resource{
		ResourceUsers,
		ResourceBranches,
		ResourceClients,
		ResourceProducts,
		ResourceCategories,
		ResourceInventory,
		ResourceTransactions,
	}
}

// Action is an operation on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists the four actions.
func Actions() []Action {
	return []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
}

// Permission is an allow-list entry. It carries no conditions.
type Permission struct {
	Resource Resource `json:"resource"`
	Action   Action   `json:"action"`
}

// String renders the permission as resource.action.
func (p Permission) String() string {
	return string(p.Resource) + "." + string(p.Action)
}

// ErrNoBranchScope is returned when a branch-bound role has no branch on its session.
var ErrNoBranchScope = shared.ErrNoBranchScope
