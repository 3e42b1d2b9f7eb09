package rbac

import "sort"

type permissionSet map[Permission]struct{}

var crud = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

// rolePermissions is built once and only read afterwards. It is not exported;
// callers go through Checker.
var rolePermissions = map[Role]permissionSet{
	RoleAdmin: grant(
		entry(ResourceUsers, crud...),
		entry(ResourceBranches, crud...),
		entry(ResourceClients, crud...),
		entry(ResourceProducts, crud...),
		entry(ResourceCategories, crud...),
		entry(ResourceInventory, ActionRead),
		entry(ResourceTransactions, crud...),
	),
	RoleDirector: grant(
		entry(ResourceClients, crud...),
		entry(ResourceProducts, crud...),
		entry(ResourceCategories, crud...),
		entry(ResourceInventory, ActionRead),
		entry(ResourceTransactions, crud...),
	),
	RoleManager: grant(
		entry(ResourceClients, ActionRead, ActionCreate, ActionUpdate),
		entry(ResourceProducts, ActionRead, ActionCreate, ActionUpdate),
		entry(ResourceCategories, ActionRead, ActionCreate),
		entry(ResourceInventory, ActionRead),
		entry(ResourceTransactions, ActionRead, ActionCreate, ActionUpdate),
	),
	RoleStaff: grant(
		entry(ResourceClients, ActionRead, ActionCreate),
		entry(ResourceProducts, ActionRead),
		entry(ResourceCategories, ActionRead),
		entry(ResourceInventory, ActionRead),
		entry(ResourceTransactions, ActionRead, ActionCreate),
	),
}

var emptySet = permissionSet{}

func entry(resource Resource, actions ...Action) []Permission {
	perms := make([]Permission, 0, len(actions))
	for _, a := range actions {
		perms = append(perms, Permission{Resource: resource, Action: a})
	}
	return perms
}

func grant(groups ...[]Permission) permissionSet {
	set := make(permissionSet)
	for _, group := range groups {
		for _, p := range group {
			set[p] = struct{}{}
		}
	}
	return set
}

func permissionsFor(role Role) permissionSet {
	if set, ok := rolePermissions[role]; ok {
		return set
	}
	return emptySet
}

func (s permissionSet) sorted() []Permission {
	order := make(map[Resource]int, len(Resources()))
	for i, r := range Resources() {
		order[r] = i
	}
	actionOrder := make(map[Action]int, len(Actions()))
	for i, a := range Actions() {
		actionOrder[a] = i
	}
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return order[out[i].Resource] < order[out[j].Resource]
		}
		return actionOrder[out[i].Action] < actionOrder[out[j].Action]
	})
	return out
}
