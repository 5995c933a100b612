package handlers

import (
	"net/http"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// AppointmentHandler, randevu talepleri.
// Firma tarafı talep açar/iptal eder, danışman tarafı yanıtlar.
type AppointmentHandler struct {
	appointmentService services.AppointmentService
}

// NewAppointmentHandler, constructor.
func NewAppointmentHandler(appointmentService services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Create godoc
// POST /api/companies/{companyId}/appointments
// Tercih edilen tarih gelecekte olmalıdır. Firmanın danışmanlarına bildirim gider.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateAppointmentRequest
	if !decode(w, r, &req) {
		return
	}

	appointment, err := h.appointmentService.Create(r.Context(), companyID(r), user, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, appointment)
}

// ListForCompany godoc
// GET /api/companies/{companyId}/appointments?status=
func (h *AppointmentHandler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	status := models.AppointmentStatus(r.URL.Query().Get("status"))

	appointments, err := h.appointmentService.ListForCompany(r.Context(), companyID(r), status)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, appointments)
}

// Cancel godoc
// POST /api/companies/{companyId}/appointments/{id}/cancel
// Sadece pending veya approved talepler iptal edilebilir.
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Cancel(r.Context(), companyID(r), r.PathValue("id"), user)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, appointment)
}

// ListForConsultant godoc
// GET /api/consultant/appointments?status=
func (h *AppointmentHandler) ListForConsultant(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	status := models.AppointmentStatus(r.URL.Query().Get("status"))
	appointments, err := h.appointmentService.ListForConsultant(r.Context(), user, status)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, appointments)
}

// Respond godoc
// POST /api/appointments/{id}/respond
// Body: { "status": "approved|rejected|completed", "scheduled_at": "...", "note": "..." }
func (h *AppointmentHandler) Respond(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.RespondAppointmentRequest
	if !decode(w, r, &req) {
		return
	}

	appointment, err := h.appointmentService.Respond(r.Context(), user, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, appointment)
}
