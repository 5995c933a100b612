package repository

import (
	"context"

	"github.com/akinalp/eihracat/models"
)

// ContactRepository, iletişim formu mesajları.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	GetByID(ctx context.Context, id string) (*models.ContactMessage, error)
	// List, handled nil ise tüm mesajları döner.
	List(ctx context.Context, handled *bool, limit, offset int) ([]models.ContactMessage, int, error)
	SetHandled(ctx context.Context, id string, handled bool, handledBy string) error
	CountUnhandled(ctx context.Context) (int, error)
}
