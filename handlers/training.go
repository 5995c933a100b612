package handlers

import (
	"net/http"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// TrainingHandler, eğitim setleri: kullanıcı tarafı ilerleme takibi ve admin CRUD.
type TrainingHandler struct {
	trainingService services.TrainingService
}

// NewTrainingHandler, constructor.
func NewTrainingHandler(trainingService services.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

// trainingSetResponse, admin set detayı: set + videoları.
type trainingSetResponse struct {
	*models.TrainingSet
	Videos []models.TrainingVideo `json:"videos"`
}

// List godoc
// GET /api/trainings
func (h *TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	sets, err := h.trainingService.ListForUser(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, sets)
}

// Get godoc
// GET /api/trainings/{setId}
func (h *TrainingHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	detail, err := h.trainingService.GetForUser(r.Context(), user.ID, r.PathValue("setId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, detail)
}

// CompleteVideo godoc
// POST /api/trainings/videos/{videoId}/complete
func (h *TrainingHandler) CompleteVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.trainingService.CompleteVideo(r.Context(), user.ID, r.PathValue("videoId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]bool{"completed": true})
}

// UncompleteVideo godoc
// DELETE /api/trainings/videos/{videoId}/complete
func (h *TrainingHandler) UncompleteVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.trainingService.UncompleteVideo(r.Context(), user.ID, r.PathValue("videoId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]bool{"completed": false})
}

// AdminList godoc
// GET /api/admin/trainings
func (h *TrainingHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	sets, err := h.trainingService.AdminListSets(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, sets)
}

// AdminGet godoc
// GET /api/admin/trainings/{setId}
func (h *TrainingHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	set, videos, err := h.trainingService.AdminGetSet(r.Context(), r.PathValue("setId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, trainingSetResponse{TrainingSet: set, Videos: videos})
}

// CreateSet godoc
// POST /api/admin/trainings
func (h *TrainingHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.TrainingSetRequest
	if !decode(w, r, &req) {
		return
	}

	set, err := h.trainingService.CreateSet(r.Context(), actor.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, set)
}

// UpdateSet godoc
// PATCH /api/admin/trainings/{setId}
func (h *TrainingHandler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.TrainingSetRequest
	if !decode(w, r, &req) {
		return
	}

	set, err := h.trainingService.UpdateSet(r.Context(), actor.ID, r.PathValue("setId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, set)
}

// DeleteSet godoc
// DELETE /api/admin/trainings/{setId}
func (h *TrainingHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.trainingService.DeleteSet(r.Context(), actor.ID, r.PathValue("setId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "training set deleted"})
}

// CreateVideo godoc
// POST /api/admin/trainings/{setId}/videos
func (h *TrainingHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.TrainingVideoRequest
	if !decode(w, r, &req) {
		return
	}

	video, err := h.trainingService.CreateVideo(r.Context(), actor.ID, r.PathValue("setId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, video)
}

// UpdateVideo godoc
// PATCH /api/admin/trainings/{setId}/videos/{videoId}
func (h *TrainingHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.TrainingVideoRequest
	if !decode(w, r, &req) {
		return
	}

	video, err := h.trainingService.UpdateVideo(r.Context(), actor.ID, r.PathValue("setId"), r.PathValue("videoId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, video)
}

// DeleteVideo godoc
// DELETE /api/admin/trainings/{setId}/videos/{videoId}
func (h *TrainingHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.trainingService.DeleteVideo(r.Context(), actor.ID, r.PathValue("setId"), r.PathValue("videoId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "training video deleted"})
}
