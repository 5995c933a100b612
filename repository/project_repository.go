package repository

import (
	"context"
	"time"

	"github.com/akinalp/eihracat/models"
)

// ProjectRepository, firma projeleri (projeler).
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, companyID, id string) (*models.Project, error)
	// List, projeleri görev sayılarıyla döner.
	List(ctx context.Context, companyID string) ([]models.ProjectWithProgress, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, companyID, id string) error
	Counts(ctx context.Context, companyID string) (models.ProjectCounts, error)
	// CountsUntil, until tarihinden önce oluşturulmuş projeleri durumlarına göre sayar.
	CountsUntil(ctx context.Context, companyID string, until time.Time) (models.ProjectCounts, error)
}

// TaskRepository, proje görevleri (gorevler).
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, companyID, id string) (*models.Task, error)
	List(ctx context.Context, companyID string, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, companyID, id string) error
	Counts(ctx context.Context, companyID string) (models.TaskCounts, error)
	// CountsInPeriod, [from, to) aralığında açık olan görevleri (to'dan önce
	// oluşturulmuş, from'dan önce tamamlanmamış) ve aralıkta tamamlananları sayar.
	CountsInPeriod(ctx context.Context, companyID string, from, to time.Time) (total, done int, err error)
}
