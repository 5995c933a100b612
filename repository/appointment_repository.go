package repository

import (
	"context"
	"time"

	"github.com/akinalp/eihracat/models"
)

// AppointmentRepository, randevu talepleri.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.AppointmentRequest) error
	GetByID(ctx context.Context, id string) (*models.AppointmentRequest, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.AppointmentRequest, error)
	// Update, kaydı yalnızca durumu hâlâ from ise yazar; değilse ErrConflict.
	Update(ctx context.Context, appt *models.AppointmentRequest, from models.AppointmentStatus) error
	// CountsInPeriod, dönemde oluşturulan taleplerin toplamını ve tamamlananları sayar.
	CountsInPeriod(ctx context.Context, companyID string, from, to time.Time) (total, completed int, err error)
	// CountOpen, bekleyen ve onaylanmış taleplerin sayısı. companyID boşsa tüm platform.
	CountOpen(ctx context.Context, companyID string) (pending, approved int, err error)
}
