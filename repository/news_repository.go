package repository

import (
	"context"

	"github.com/akinalp/eihracat/models"
)

// NewsRepository, haber makaleleri.
type NewsRepository interface {
	Create(ctx context.Context, article *models.NewsArticle) error
	GetByID(ctx context.Context, id string) (*models.NewsArticle, error)
	// List, publishedOnly true ise sadece yayınlanmış haberleri en yeni önce döner.
	List(ctx context.Context, publishedOnly bool, category string, limit, offset int) ([]models.NewsArticle, int, error)
	Update(ctx context.Context, article *models.NewsArticle) error
	Delete(ctx context.Context, id string) error
	CountPublished(ctx context.Context) (int, error)
}
