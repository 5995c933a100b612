package handlers

import (
	"net/http"

	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// DashboardHandler, firma paneli ve admin istatistikleri.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

// NewDashboardHandler, constructor.
func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Company godoc
// GET /api/companies/{companyId}/dashboard
func (h *DashboardHandler) Company(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Company(r.Context(), companyID(r), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, dashboard)
}

// AdminStats godoc
// GET /api/admin/stats
func (h *DashboardHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.AdminStats(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}
