// Package view builds the JSON view models behind the application pages.
package view

import (
	"net/http"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Capabilities tells the UI which controls to show for the page's resource.
type Capabilities struct {
	Create bool `json:"can_create"`
	Update bool `json:"can_update"`
	Delete bool `json:"can_delete"`
}

// User is the signed-in account as shown in the page chrome.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	RoleLabel   string `json:"role_label"`
	RoleIcon    string `json:"role_icon"`
	BranchID    string `json:"branch_id,omitempty"`
	BranchName  string `json:"branch_name,omitempty"`
	CrossBranch bool   `json:"cross_branch"`
}

// NavItem is one entry of the navigation menu.
type NavItem struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// TemplateData contains values shared across pages.
type TemplateData struct {
	Title       string       `json:"title"`
	CurrentPath string       `json:"current_path"`
	CSRFToken   string       `json:"csrf_token,omitempty"`
	User        User         `json:"user"`
	Can         Capabilities `json:"permissions"`
	Nav         []NavItem    `json:"nav"`
	Data        any          `json:"data,omitempty"`
}

// Render writes the page model inside the standard envelope.
func Render(w http.ResponseWriter, data TemplateData) {
	httpx.OK(w, data)
}

func newUser(sess *shared.Session) User {
	role := rbac.ParseRole(sess.Role)
	return User{
		ID:          sess.UserID,
		Name:        sess.Name,
		Role:        sess.Role,
		RoleLabel:   rbac.RoleLabel(role),
		RoleIcon:    rbac.RoleIcon(role),
		BranchID:    sess.BranchID,
		BranchName:  sess.BranchName,
		CrossBranch: rbac.CrossBranch(role),
	}
}

func capabilities(checker rbac.Checker, resource rbac.Resource) Capabilities {
	return Capabilities{
		Create: checker.Can(resource, rbac.ActionCreate),
		Update: checker.Can(resource, rbac.ActionUpdate),
		Delete: checker.Can(resource, rbac.ActionDelete),
	}
}
