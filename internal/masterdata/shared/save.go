// Package shared holds helpers common to the master data packages.
package shared

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// SaveAction is create for records without an id and update otherwise.
func SaveAction(id string) rbac.Action {
	if strings.TrimSpace(id) == "" {
		return rbac.ActionCreate
	}
	return rbac.ActionUpdate
}

// AuthorizeSave checks the create-or-update permission for a save request.
// It writes a 403 envelope and returns false when the session lacks it.
func AuthorizeSave(w http.ResponseWriter, r *http.Request, resp httpx.Responder, resource rbac.Resource, id string) (*internalShared.Session, bool) {
	sess := internalShared.SessionFromContext(r.Context())
	if sess == nil || !rbac.NewChecker(sess.Role).Can(resource, SaveAction(id)) {
		httpx.Fail(w, http.StatusForbidden, resp.Text(internalShared.MsgForbidden))
		return nil, false
	}
	return sess, true
}

// SaveRoutes mounts the list, save and delete endpoints every master data
// resource exposes.
func SaveRoutes(r chi.Router, gate rbac.Middleware, resource rbac.Resource, list, save, remove http.HandlerFunc) {
	r.With(gate.APIPermission(resource, rbac.ActionRead)).Get("/", list)
	r.With(gate.APIRequireAny(resource, rbac.ActionCreate, rbac.ActionUpdate)).Post("/", save)
	r.With(gate.APIPermission(resource, rbac.ActionDelete)).Delete("/{id}", remove)
}

// Decode reads a JSON body and validates it, answering 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, resp httpx.Responder, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		resp.Invalid(w, internalShared.MsgInvalidRequest)
		return false
	}
	if err := validate.Struct(target); err != nil {
		httpx.Fail(w, http.StatusBadRequest, internalShared.ValidationMessage(resp.Messages, err))
		return false
	}
	return true
}

var validate = internalShared.NewValidator()
