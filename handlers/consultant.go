package handlers

import (
	"net/http"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// ConsultantHandler, danışman atama ve danışman paneli endpoint'leri.
type ConsultantHandler struct {
	consultantService services.ConsultantService
}

// NewConsultantHandler, constructor.
func NewConsultantHandler(consultantService services.ConsultantService) *ConsultantHandler {
	return &ConsultantHandler{consultantService: consultantService}
}

// List godoc
// GET /api/admin/consultants
func (h *ConsultantHandler) List(w http.ResponseWriter, r *http.Request) {
	consultants, err := h.consultantService.ListConsultants(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, consultants)
}

// Assign godoc
// POST /api/admin/companies/{id}/consultants
// Body: { "user_id": "..." }
func (h *ConsultantHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AssignConsultantRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.consultantService.Assign(r.Context(), actor.ID, r.PathValue("id"), req.UserID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, map[string]string{"message": "consultant assigned"})
}

// Unassign godoc
// DELETE /api/admin/companies/{id}/consultants/{userId}
func (h *ConsultantHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.consultantService.Unassign(r.Context(), actor.ID, r.PathValue("id"), r.PathValue("userId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "consultant unassigned"})
}

// MyCompanies godoc
// GET /api/consultant/companies
func (h *ConsultantHandler) MyCompanies(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	companies, err := h.consultantService.MyCompanies(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, companies)
}
