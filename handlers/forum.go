package handlers

import (
	"net/http"
	"strings"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// ForumHandler, platform geneli forum konuları ve yanıtları.
type ForumHandler struct {
	forumService services.ForumService
}

// NewForumHandler, constructor.
func NewForumHandler(forumService services.ForumService) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

// ListTopics godoc
// GET /api/forum/topics?category=&q=&limit=&offset=
// Sabitlenmişler önce, sonra son aktiviteye göre.
func (h *ForumHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	page := pkg.ParsePagination(r)
	filter := models.ForumTopicFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}

	topics, total, err := h.forumService.ListTopics(r.Context(), filter)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pkg.Page[models.ForumTopic]{
		Items:  topics,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// ListCategories godoc
// GET /api/forum/categories
func (h *ForumHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.forumService.ListCategories(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, categories)
}

// GetTopic godoc
// GET /api/forum/topics/{id}
func (h *ForumHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := h.forumService.GetTopic(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, topic)
}

// CreateTopic godoc
// POST /api/forum/topics
func (h *ForumHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateTopicRequest
	if !decode(w, r, &req) {
		return
	}

	topic, err := h.forumService.CreateTopic(r.Context(), user, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, topic)
}

// UpdateTopic godoc
// PATCH /api/forum/topics/{id}
// Sadece yazar veya admin.
func (h *ForumHandler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateTopicRequest
	if !decode(w, r, &req) {
		return
	}

	topic, err := h.forumService.UpdateTopic(r.Context(), user, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, topic)
}

// DeleteTopic godoc
// DELETE /api/forum/topics/{id}
func (h *ForumHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.forumService.DeleteTopic(r.Context(), user, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "topic deleted"})
}

// Moderate godoc
// PATCH /api/admin/forum/topics/{id}
// Body: { "is_pinned": true, "is_locked": false }
func (h *ForumHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.ModerateTopicRequest
	if !decode(w, r, &req) {
		return
	}

	topic, err := h.forumService.Moderate(r.Context(), actor.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, topic)
}

// CreateReply godoc
// POST /api/forum/topics/{id}/replies
// Kilitli konulara yanıt yazılamaz.
func (h *ForumHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateReplyRequest
	if !decode(w, r, &req) {
		return
	}

	reply, err := h.forumService.CreateReply(r.Context(), user, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, reply)
}

// DeleteReply godoc
// DELETE /api/forum/replies/{id}
func (h *ForumHandler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.forumService.DeleteReply(r.Context(), user, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "reply deleted"})
}
