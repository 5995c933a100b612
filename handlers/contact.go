package handlers

import (
	"net/http"
	"strconv"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/ratelimit"
	"github.com/akinalp/eihracat/services"
)

// ContactHandler, iletişim formu ve admin gelen kutusu.
// POST /api/contact public'tir; IP rate limit'i route seviyesinde uygulanır.
type ContactHandler struct {
	contactService services.ContactService
}

// NewContactHandler, constructor.
func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit godoc
// POST /api/contact
// Body: { "name", "email", "company", "phone", "subject", "message" }
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !decode(w, r, &req) {
		return
	}

	msg, err := h.contactService.Submit(r.Context(), &req, ratelimit.ClientIP(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, map[string]string{
		"id":      msg.ID,
		"message": "your message has been received",
	})
}

// List godoc
// GET /api/admin/contact?handled=&limit=&offset=
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pkg.ParsePagination(r)

	var handled *bool
	if v := r.URL.Query().Get("handled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "handled must be true or false")
			return
		}
		handled = &b
	}

	messages, total, err := h.contactService.List(r.Context(), handled, page.Limit, page.Offset)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pkg.Page[models.ContactMessage]{
		Items:  messages,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// SetHandled godoc
// PATCH /api/admin/contact/{id}
// Body: { "is_handled": true }
func (h *ContactHandler) SetHandled(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateContactRequest
	if !decode(w, r, &req) {
		return
	}

	msg, err := h.contactService.SetHandled(r.Context(), actor.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, msg)
}
