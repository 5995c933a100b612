// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz, repository interface'leri üzerinden
// çalışır. Implementasyonlar database.TxQuerier alır; böylece aynı repository
// hem *database.DB hem transaction (*database.Tx) ile kullanılabilir.
package repository

import (
	"context"
	"time"

	"github.com/akinalp/eihracat/models"
)

// UserRepository, kullanıcı veritabanı işlemleri.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context) (map[models.PlatformRole]int, error)
}
