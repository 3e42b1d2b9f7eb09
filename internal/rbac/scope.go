package rbac

// EffectiveBranch returns the branch a query or write must run against.
// Branch-bound roles always get their session branch no matter what was
// requested. The administrator gets the requested branch; empty means all.
func EffectiveBranch(role Role, sessionBranch, requested string) string {
	if role == RoleAdmin {
		return requested
	}
	return sessionBranch
}

// ScopeBranch applies EffectiveBranch and refuses branch-bound roles that
// carry no branch, so an empty result never widens their scope to all branches.
func ScopeBranch(role Role, sessionBranch, requested string) (string, error) {
	branch := EffectiveBranch(role, sessionBranch, requested)
	if role != RoleAdmin && branch == "" {
		return "", ErrNoBranchScope
	}
	return branch, nil
}

// CrossBranch reports whether the role may act outside its own branch.
func CrossBranch(role Role) bool {
	return role == RoleAdmin
}
