package handlers

import (
	"net/http"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// PricingHandler, fiyat paketleri. Liste, detay ve teklif hesaplama public'tir.
type PricingHandler struct {
	pricingService services.PricingService
}

// NewPricingHandler, constructor.
func NewPricingHandler(pricingService services.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// List godoc
// GET /api/pricing
func (h *PricingHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.pricingService.ListActive(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, plans)
}

// Get godoc
// GET /api/pricing/{code}
func (h *PricingHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.pricingService.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, plan)
}

// Quote godoc
// POST /api/pricing/quote
// Body: { "plan_code": "...", "billing_cycle": "monthly|yearly", "users": 3 }
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if !decode(w, r, &req) {
		return
	}

	quote, err := h.pricingService.Quote(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, quote)
}

// AdminList godoc
// GET /api/admin/pricing
// Pasif paketler dahil.
func (h *PricingHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	plans, err := h.pricingService.AdminList(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, plans)
}

// Create godoc
// POST /api/admin/pricing
func (h *PricingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.PricingPlanRequest
	if !decode(w, r, &req) {
		return
	}

	plan, err := h.pricingService.Create(r.Context(), actor.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, plan)
}

// Update godoc
// PATCH /api/admin/pricing/{id}
func (h *PricingHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.PricingPlanRequest
	if !decode(w, r, &req) {
		return
	}

	plan, err := h.pricingService.Update(r.Context(), actor.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, plan)
}

// Delete godoc
// DELETE /api/admin/pricing/{id}
func (h *PricingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.pricingService.Delete(r.Context(), actor.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "pricing plan deleted"})
}
