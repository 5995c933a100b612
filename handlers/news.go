package handlers

import (
	"net/http"
	"strings"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// NewsHandler, haberler. Liste ve detay public, yazma admin'e açık.
type NewsHandler struct {
	newsService services.NewsService
}

// NewNewsHandler, constructor.
func NewNewsHandler(newsService services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

// ListPublished godoc
// GET /api/news?category=&limit=&offset=
func (h *NewsHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page := pkg.ParsePagination(r)
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	articles, total, err := h.newsService.ListPublished(r.Context(), category, page.Limit, page.Offset)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pkg.Page[models.NewsArticle]{
		Items:  articles,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// GetPublished godoc
// GET /api/news/{id}
// Yayında olmayan haber 404 döner.
func (h *NewsHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	article, err := h.newsService.GetPublished(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, article)
}

// AdminList godoc
// GET /api/admin/news?limit=&offset=
func (h *NewsHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	page := pkg.ParsePagination(r)

	articles, total, err := h.newsService.AdminList(r.Context(), page.Limit, page.Offset)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pkg.Page[models.NewsArticle]{
		Items:  articles,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// AdminGet godoc
// GET /api/admin/news/{id}
func (h *NewsHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	article, err := h.newsService.AdminGet(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, article)
}

// Create godoc
// POST /api/admin/news
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.NewsRequest
	if !decode(w, r, &req) {
		return
	}

	article, err := h.newsService.Create(r.Context(), actor.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, article)
}

// Update godoc
// PATCH /api/admin/news/{id}
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.NewsRequest
	if !decode(w, r, &req) {
		return
	}

	article, err := h.newsService.Update(r.Context(), actor.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, article)
}

// Delete godoc
// DELETE /api/admin/news/{id}
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.newsService.Delete(r.Context(), actor.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "news deleted"})
}
