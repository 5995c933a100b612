package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
	"github.com/akinalp/eihracat/ws"
)

// ProjectService, firma projeleri (projeler) ve görevleri (gorevler).
type ProjectService interface {
	ListProjects(ctx context.Context, companyID string) ([]models.ProjectWithProgress, error)
	GetProject(ctx context.Context, companyID, projectID string) (*models.ProjectWithProgress, error)
	CreateProject(ctx context.Context, companyID, actorID string, req *models.CreateProjectRequest) (*models.ProjectWithProgress, error)
	UpdateProject(ctx context.Context, companyID, projectID string, req *models.UpdateProjectRequest) (*models.ProjectWithProgress, error)
	DeleteProject(ctx context.Context, companyID, projectID string) error

	ListTasks(ctx context.Context, companyID string, filter models.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, companyID, projectID, taskID string) (*models.Task, error)
	// CreateTask, atanan kişi firma üyesi olmalıdır; atanana WebSocket bildirimi gider.
	CreateTask(ctx context.Context, companyID, projectID, actorID string, req *models.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, companyID, projectID, taskID, actorID string, req *models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, companyID, projectID, taskID string) error
}

type projectService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	members  repository.MemberRepository
	notifier ws.Notifier
	log      *zap.Logger
	now      clock
}

// NewProjectService, constructor.
func NewProjectService(
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	members repository.MemberRepository,
	notifier ws.Notifier,
	log *zap.Logger,
) ProjectService {
	return &projectService{
		projects: projects,
		tasks:    tasks,
		members:  members,
		notifier: notifier,
		log:      log,
		now:      systemClock,
	}
}

// TaskAssignedData, task_assigned event payload'ı.
type TaskAssignedData struct {
	CompanyID  string `json:"company_id"`
	ProjectID  string `json:"project_id"`
	TaskID     string `json:"task_id"`
	Title      string `json:"title"`
	AssignedBy string `json:"assigned_by"`
}

func (s *projectService) ListProjects(ctx context.Context, companyID string) ([]models.ProjectWithProgress, error) {
	return s.projects.List(ctx, companyID)
}

func (s *projectService) GetProject(ctx context.Context, companyID, projectID string) (*models.ProjectWithProgress, error) {
	project, err := s.projects.GetByID(ctx, companyID, projectID)
	if err != nil {
		return nil, err
	}
	return s.withProgress(ctx, project)
}

func (s *projectService) withProgress(ctx context.Context, project *models.Project) (*models.ProjectWithProgress, error) {
	tasks, err := s.tasks.List(ctx, project.CompanyID, models.TaskFilter{ProjectID: project.ID})
	if err != nil {
		return nil, err
	}
	done := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusDone {
			done++
		}
	}
	return &models.ProjectWithProgress{
		Project:         *project,
		TaskTotal:       len(tasks),
		TaskDone:        done,
		ProgressPercent: pkg.Percent(done, len(tasks)),
	}, nil
}

func (s *projectService) CreateProject(ctx context.Context, companyID, actorID string, req *models.CreateProjectRequest) (*models.ProjectWithProgress, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	project := &models.Project{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		CreatedBy:   actorID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return &models.ProjectWithProgress{Project: *project}, nil
}

func (s *projectService) UpdateProject(ctx context.Context, companyID, projectID string, req *models.UpdateProjectRequest) (*models.ProjectWithProgress, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	project, err := s.projects.GetByID(ctx, companyID, projectID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}
	if project.StartDate != nil && project.DueDate != nil && project.DueDate.Before(*project.StartDate) {
		return nil, fmt.Errorf("%w: due date cannot be before start date", pkg.ErrBadRequest)
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return s.withProgress(ctx, project)
}

func (s *projectService) DeleteProject(ctx context.Context, companyID, projectID string) error {
	return s.projects.Delete(ctx, companyID, projectID)
}

func (s *projectService) ListTasks(ctx context.Context, companyID string, filter models.TaskFilter) ([]models.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status filter", pkg.ErrBadRequest)
	}
	return s.tasks.List(ctx, companyID, filter)
}

func (s *projectService) GetTask(ctx context.Context, companyID, projectID, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, companyID, taskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, fmt.Errorf("%w: task", pkg.ErrNotFound)
	}
	return task, nil
}

func (s *projectService) CreateTask(ctx context.Context, companyID, projectID, actorID string, req *models.CreateTaskRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	if _, err := s.projects.GetByID(ctx, companyID, projectID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, companyID, req.AssigneeID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   projectID,
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedBy:   actorID,
	}
	task.SetStatus(req.Status, s.now())

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.notifyAssignee(task, actorID)
	return task, nil
}

func (s *projectService) UpdateTask(ctx context.Context, companyID, projectID, taskID, actorID string, req *models.UpdateTaskRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	task, err := s.GetTask(ctx, companyID, projectID, taskID)
	if err != nil {
		return nil, err
	}

	reassigned := false
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			task.AssigneeID = nil
		} else {
			if err := s.requireMember(ctx, companyID, req.AssigneeID); err != nil {
				return nil, err
			}
			reassigned = task.AssigneeID == nil || *task.AssigneeID != *req.AssigneeID
			assignee := *req.AssigneeID
			task.AssigneeID = &assignee
		}
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Status != nil {
		task.SetStatus(*req.Status, s.now())
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if reassigned {
		s.notifyAssignee(task, actorID)
	}
	return task, nil
}

func (s *projectService) DeleteTask(ctx context.Context, companyID, projectID, taskID string) error {
	if _, err := s.GetTask(ctx, companyID, projectID, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, companyID, taskID)
}

func (s *projectService) requireMember(ctx context.Context, companyID string, userID *string) error {
	if userID == nil {
		return nil
	}
	if _, err := s.members.Get(ctx, companyID, *userID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: assignee is not a member of this company", pkg.ErrBadRequest)
		}
		return err
	}
	return nil
}

func (s *projectService) notifyAssignee(task *models.Task, actorID string) {
	if task.AssigneeID == nil || *task.AssigneeID == actorID {
		return
	}
	s.notifier.SendToUser(*task.AssigneeID, ws.Event{
		Op: ws.OpTaskAssigned,
		Data: TaskAssignedData{
			CompanyID:  task.CompanyID,
			ProjectID:  task.ProjectID,
			TaskID:     task.ID,
			Title:      task.Title,
			AssignedBy: actorID,
		},
	})
	s.log.Debug("task assignment notified", zap.String("task_id", task.ID), zap.String("assignee_id", *task.AssigneeID))
}
