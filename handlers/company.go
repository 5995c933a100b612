package handlers

import (
	"net/http"
	"strings"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/i18n"
	"github.com/akinalp/eihracat/services"
)

// CompanyHandler, firma (tenant) ve personel endpoint'lerini yönetir.
//
// /api/admin/companies altındakiler platform admin'e, /api/companies/{companyId}
// altındakiler CompanyMiddleware'in verdiği firma yetkisine göre açılır.
type CompanyHandler struct {
	companyService services.CompanyService
}

// NewCompanyHandler, constructor.
func NewCompanyHandler(companyService services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// AdminList godoc
// GET /api/admin/companies?q=&status=&market=&limit=&offset=
func (h *CompanyHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	page := pkg.ParsePagination(r)
	q := r.URL.Query()
	filter := models.CompanyFilter{
		Query:  strings.TrimSpace(q.Get("q")),
		Status: models.CompanyStatus(q.Get("status")),
		Market: normalizeMarket(q.Get("market")),
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	companies, total, err := h.companyService.AdminList(r.Context(), filter)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pkg.Page[models.Company]{
		Items:  companies,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// AdminCreate godoc
// POST /api/admin/companies
// owner_email verilirse o kullanıcı firmanın sahibi olur.
func (h *CompanyHandler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCompanyRequest
	if !decode(w, r, &req) {
		return
	}

	company, err := h.companyService.AdminCreate(r.Context(), actor.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, company)
}

// AdminGet godoc
// GET /api/admin/companies/{id}
func (h *CompanyHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	company, err := h.companyService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, company)
}

// AdminUpdate godoc
// PATCH /api/admin/companies/{id}
// Firma durumunu (active/passive/pending) sadece admin değiştirebilir.
func (h *CompanyHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateCompanyRequest
	if !decode(w, r, &req) {
		return
	}

	company, err := h.companyService.AdminUpdate(r.Context(), actor.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, company)
}

// AdminDelete godoc
// DELETE /api/admin/companies/{id}
func (h *CompanyHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.companyService.AdminDelete(r.Context(), actor.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "company deleted"})
}

// ListMine godoc
// GET /api/companies
// Kullanıcının üye olduğu firmalar, her biri için efektif yetkiyle.
func (h *CompanyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	memberships, err := h.companyService.ListMine(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, memberships)
}

// Get godoc
// GET /api/companies/{companyId}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	company, err := h.companyService.Get(r.Context(), companyID(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, company)
}

// Update godoc
// PATCH /api/companies/{companyId}
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCompanyRequest
	if !decode(w, r, &req) {
		return
	}

	company, err := h.companyService.Update(r.Context(), companyID(r), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, company)
}

// ListPersonnel godoc
// GET /api/companies/{companyId}/personnel
func (h *CompanyHandler) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	personnel, err := h.companyService.ListPersonnel(r.Context(), companyID(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, personnel)
}

// AddPersonnel godoc
// POST /api/companies/{companyId}/personnel
// E-postası kayıtlı değilse hesap açılır ve davet e-postası, isteğin diline göre gönderilir.
func (h *CompanyHandler) AddPersonnel(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.AddPersonnelRequest
	if !decode(w, r, &req) {
		return
	}

	lang := i18n.Detect(r.Header.Get("Accept-Language"))
	member, err := h.companyService.AddPersonnel(r.Context(), user, companyID(r), &req, lang)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, member)
}

// UpdatePersonnel godoc
// PATCH /api/companies/{companyId}/personnel/{userId}
func (h *CompanyHandler) UpdatePersonnel(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.UpdatePersonnelRequest
	if !decode(w, r, &req) {
		return
	}

	member, err := h.companyService.UpdatePersonnel(r.Context(), user, companyID(r), r.PathValue("userId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, member)
}

// RemovePersonnel godoc
// DELETE /api/companies/{companyId}/personnel/{userId}
// Firma sahibi çıkarılamaz.
func (h *CompanyHandler) RemovePersonnel(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.companyService.RemovePersonnel(r.Context(), user, companyID(r), r.PathValue("userId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "personnel removed"})
}

// normalizeMarket, tek ülke kodunu kayıtlı export_markets biçimine (büyük harf) çevirir.
func normalizeMarket(raw string) string {
	if m := models.NormalizeMarkets([]string{raw}); len(m) > 0 {
		return m[0]
	}
	return ""
}
