package rbac

// Checker answers permission queries for a single role.
type Checker struct {
	role Role
	set  permissionSet
}

// NewChecker builds a Checker for the raw role code. Unknown codes get an
// empty permission set.
func NewChecker(code string) Checker {
	role := ParseRole(code)
	return Checker{role: role, set: permissionsFor(role)}
}

// Role returns the parsed role.
func (c Checker) Role() Role {
	return c.role
}

// Can reports whether the role holds (resource, action).
func (c Checker) Can(resource Resource, action Action) bool {
	_, ok := c.set[Permission{Resource: resource, Action: action}]
	return ok
}

// CanAny reports whether at least one action is allowed on resource.
func (c Checker) CanAny(resource Resource, actions ...Action) bool {
	for _, a := range actions {
		if c.Can(resource, a) {
			return true
		}
	}
	return false
}

// CanAll reports whether every action is allowed on resource. An empty
// action list is vacuously allowed.
func (c Checker) CanAll(resource Resource, actions ...Action) bool {
	for _, a := range actions {
		if !c.Can(resource, a) {
			return false
		}
	}
	return true
}

// IsSystemAdmin reports whether the checker holds the administrator's own set.
func (c Checker) IsSystemAdmin() bool {
	return c.role == RoleAdmin && c.set != nil
}

// AllPermissions returns a copy of the role's permissions in stable order.
func (c Checker) AllPermissions() []Permission {
	return c.set.sorted()
}

// ResourceActions lists the allowed actions per resource, skipping resources
// the role cannot touch at all.
func (c Checker) ResourceActions() map[Resource][]Action {
	out := make(map[Resource][]Action)
	for _, p := range c.AllPermissions() {
		out[p.Resource] = append(out[p.Resource], p.Action)
	}
	return out
}
