package repository

import (
	"context"

	"github.com/akinalp/eihracat/models"
)

// ReportRepository, dönem raporları.
type ReportRepository interface {
	Create(ctx context.Context, report *models.PeriodReport) error
	GetByID(ctx context.Context, companyID, id string) (*models.PeriodReport, error)
	// ListByCompany, raporları dönem başlangıcına göre en yeni önce döner.
	ListByCompany(ctx context.Context, companyID string) ([]models.PeriodReport, error)
	// Update, raporu yalnızca durumu hâlâ from ise yazar; değilse ErrConflict.
	Update(ctx context.Context, report *models.PeriodReport, from models.ReportStatus) error
	Delete(ctx context.Context, companyID, id string) error
	CountByStatus(ctx context.Context, status models.ReportStatus) (int, error)
}
