package handlers

import (
	"net/http"
	"strings"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// UserHandler, platform admin'in kullanıcı yönetimi endpoint'leri.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler, constructor.
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// GET /api/users?q=&role=&limit=&offset=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pkg.ParsePagination(r)
	filter := models.UserFilter{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Role:   models.PlatformRole(r.URL.Query().Get("role")),
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	users, total, err := h.userService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pkg.Page[models.User]{
		Items:  users,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// Get godoc
// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// Create godoc
// POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AdminCreateUserRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.userService.Create(r.Context(), actor.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, user)
}

// Update godoc
// PATCH /api/users/{id}
// Admin kendi rolünü düşüremez, kendini pasifleştiremez.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AdminUpdateUserRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.userService.Update(r.Context(), actor.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// Delete godoc
// DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), actor.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
