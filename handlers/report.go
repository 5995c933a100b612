package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// xlsxContentType, excelize çıktısının MIME tipi.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler, dönem raporları.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler, constructor.
func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// List godoc
// GET /api/companies/{companyId}/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.List(r.Context(), companyID(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, reports)
}

// Get godoc
// GET /api/companies/{companyId}/reports/{id}
// Rapor, dönem penceresinde hesaplanan istatistiklerle döner.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.Get(r.Context(), companyID(r), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, report)
}

// Create godoc
// POST /api/companies/{companyId}/reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateReportRequest
	if !decode(w, r, &req) {
		return
	}

	report, err := h.reportService.Create(r.Context(), companyID(r), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, report)
}

// Update godoc
// PATCH /api/companies/{companyId}/reports/{id}
// Sadece taslak raporlar düzenlenebilir.
func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateReportRequest
	if !decode(w, r, &req) {
		return
	}

	report, err := h.reportService.Update(r.Context(), companyID(r), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, report)
}

// Delete godoc
// DELETE /api/companies/{companyId}/reports/{id}
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reportService.Delete(r.Context(), companyID(r), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "report deleted"})
}

// Submit godoc
// POST /api/companies/{companyId}/reports/{id}/submit
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	report, err := h.reportService.Submit(r.Context(), companyID(r), r.PathValue("id"), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, report)
}

// Review godoc
// POST /api/companies/{companyId}/reports/{id}/review
// Body: { "feedback": "..." }. Atanmış danışman veya admin.
func (h *ReportHandler) Review(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.ReviewReportRequest
	if !decode(w, r, &req) {
		return
	}

	report, err := h.reportService.Review(r.Context(), user, companyID(r), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, report)
}

// Export godoc
// GET /api/companies/{companyId}/reports/{id}/export.xlsx
// Özet ve görevler sayfalı çalışma kitabını indirme olarak döner.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.reportService.Export(r.Context(), companyID(r), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
