// Package handlers: AdminHandler, platform admin'e özel yardımcı endpoint'ler.
//
// Sadece platform admin kullanıcılar erişebilir; route seviyesinde
// RequireAdmin middleware'i ile korunur.
package handlers

import (
	"net/http"
	"strings"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// AdminHandler, audit log görüntüleme.
type AdminHandler struct {
	auditService services.AuditService
}

// NewAdminHandler, constructor.
func NewAdminHandler(auditService services.AuditService) *AdminHandler {
	return &AdminHandler{auditService: auditService}
}

// ListAuditLogs godoc
// GET /api/admin/audit-logs?entity_type=&actor_id=&limit=&offset=
// Admin işlemlerinin kaydı, en yeni önce.
func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	page := pkg.ParsePagination(r)
	filter := models.AuditFilter{
		EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
		ActorID:    strings.TrimSpace(r.URL.Query().Get("actor_id")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}

	logs, total, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pkg.Page[models.AuditLog]{
		Items:  logs,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}
