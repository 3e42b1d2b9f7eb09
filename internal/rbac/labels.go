package rbac

// RoleLabel is the display name of a role. Presentation only.
func RoleLabel(role Role) string {
	switch role {
	case RoleAdmin:
		return "Administrator"
	case RoleDirector:
		return "Branch Director"
	case RoleManager:
		return "Branch Manager"
	case RoleStaff:
		return "Branch Staff"
	default:
		return "Unknown"
	}
}

// RoleIcon is the UI icon name of a role. Presentation only.
func RoleIcon(role Role) string {
	switch role {
	case RoleAdmin:
		return "shield"
	case RoleDirector:
		return "briefcase"
	case RoleManager:
		return "clipboard"
	case RoleStaff:
		return "user"
	default:
		return "help-circle"
	}
}

// ResourceLabel is the menu caption of a resource.
func ResourceLabel(resource Resource) string {
	switch resource {
	case ResourceUsers:
		return "Users"
	case ResourceBranches:
		return "Branches"
	case ResourceClients:
		return "Clients"
	case ResourceProducts:
		return "Products"
	case ResourceCategories:
		return "Categories"
	case ResourceInventory:
		return "Inventory"
	case ResourceTransactions:
		return "Transactions"
	default:
		return string(resource)
	}
}
