package handlers

import (
	"net/http"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// ProjectHandler, firma projeleri ve görevleri.
// Okuma PermViewCompany, yazma PermManageProjects / PermManageTasks ister.
type ProjectHandler struct {
	projectService services.ProjectService
}

// NewProjectHandler, constructor.
func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects godoc
// GET /api/companies/{companyId}/projects
// Her proje görev sayıları ve ilerleme yüzdesiyle döner.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects(r.Context(), companyID(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, projects)
}

// GetProject godoc
// GET /api/companies/{companyId}/projects/{projectId}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.GetProject(r.Context(), companyID(r), r.PathValue("projectId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, project)
}

// CreateProject godoc
// POST /api/companies/{companyId}/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if !decode(w, r, &req) {
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), companyID(r), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, project)
}

// UpdateProject godoc
// PATCH /api/companies/{companyId}/projects/{projectId}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProjectRequest
	if !decode(w, r, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), companyID(r), r.PathValue("projectId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, project)
}

// DeleteProject godoc
// DELETE /api/companies/{companyId}/projects/{projectId}
// Projeye bağlı görevler de silinir.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projectService.DeleteProject(r.Context(), companyID(r), r.PathValue("projectId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}

// ListCompanyTasks godoc
// GET /api/companies/{companyId}/tasks?assignee=me&status=&project=
// Projeler arası görev listesi. assignee=me oturumdaki kullanıcıya çevrilir.
func (h *ProjectHandler) ListCompanyTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.TaskFilter{
		ProjectID:  q.Get("project"),
		AssigneeID: q.Get("assignee"),
		Status:     models.TaskStatus(q.Get("status")),
	}
	if filter.AssigneeID == "me" {
		filter.AssigneeID = user.ID
	}

	h.listTasks(w, r, filter)
}

// ListTasks godoc
// GET /api/companies/{companyId}/projects/{projectId}/tasks?status=
func (h *ProjectHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	// Proje firmaya ait değilse 404.
	if _, err := h.projectService.GetProject(r.Context(), companyID(r), r.PathValue("projectId")); err != nil {
		pkg.Error(w, err)
		return
	}

	h.listTasks(w, r, models.TaskFilter{
		ProjectID: r.PathValue("projectId"),
		Status:    models.TaskStatus(r.URL.Query().Get("status")),
	})
}

func (h *ProjectHandler) listTasks(w http.ResponseWriter, r *http.Request, filter models.TaskFilter) {
	tasks, err := h.projectService.ListTasks(r.Context(), companyID(r), filter)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, tasks)
}

// GetTask godoc
// GET /api/companies/{companyId}/projects/{projectId}/tasks/{taskId}
func (h *ProjectHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.projectService.GetTask(r.Context(), companyID(r), r.PathValue("projectId"), r.PathValue("taskId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, task)
}

// CreateTask godoc
// POST /api/companies/{companyId}/projects/{projectId}/tasks
// Atanan kişi firma üyesi olmalıdır; atanana WebSocket bildirimi gider.
func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if !decode(w, r, &req) {
		return
	}

	task, err := h.projectService.CreateTask(r.Context(), companyID(r), r.PathValue("projectId"), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, task)
}

// UpdateTask godoc
// PATCH /api/companies/{companyId}/projects/{projectId}/tasks/{taskId}
// done durumuna geçiş completed_at damgalar, geri alınca temizlenir.
func (h *ProjectHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if !decode(w, r, &req) {
		return
	}

	task, err := h.projectService.UpdateTask(r.Context(), companyID(r), r.PathValue("projectId"), r.PathValue("taskId"), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, task)
}

// DeleteTask godoc
// DELETE /api/companies/{companyId}/projects/{projectId}/tasks/{taskId}
func (h *ProjectHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.projectService.DeleteTask(r.Context(), companyID(r), r.PathValue("projectId"), r.PathValue("taskId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}
