// Package handlers: RoleHandler: firma rol yönetimi.
//
// Tüm CUD endpoint'leri PermManageRoles gerektirir. Varsayılan roller,
// kullanımdaki roller ve rol hiyerarşisi service tarafından korunur.
package handlers

import (
	"net/http"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// RoleHandler, rol endpoint'lerini yöneten struct.
type RoleHandler struct {
	roleService services.RoleService
}

// NewRoleHandler, constructor.
func NewRoleHandler(roleService services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// List godoc
// GET /api/companies/{companyId}/roles
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.List(r.Context(), companyID(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, roles)
}

// Create godoc
// POST /api/companies/{companyId}/roles
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateRoleRequest
	if !decode(w, r, &req) {
		return
	}

	role, err := h.roleService.Create(r.Context(), user, companyID(r), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, role)
}

// Update godoc
// PATCH /api/companies/{companyId}/roles/{roleId}
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.UpdateRoleRequest
	if !decode(w, r, &req) {
		return
	}

	role, err := h.roleService.Update(r.Context(), user, companyID(r), r.PathValue("roleId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, role)
}

// Delete godoc
// DELETE /api/companies/{companyId}/roles/{roleId}
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.roleService.Delete(r.Context(), user, companyID(r), r.PathValue("roleId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "role deleted"})
}
