package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/cache"
	"github.com/akinalp/eihracat/repository"
)

// permissionCacheTTL, efektif yetkilerin cache'te kalma süresi.
const permissionCacheTTL = 30 * time.Second

// PermissionService, kullanıcının bir firmadaki efektif yetkisini hesaplar.
//
// Öncelik sırası:
//   - platform admin → PermAll
//   - firmaya atanmış danışman → PermConsultant (üye de ise rol yetkisiyle birleşir)
//   - üye → rolünün yetkileri (owner rolü PermAll taşır)
//   - hiçbiri → 0
type PermissionService interface {
	Resolve(ctx context.Context, user *models.User, companyID string) (models.Permission, error)
	// Invalidate, firmaya ait tüm cache kayıtlarını siler (rol değişiklikleri).
	Invalidate(companyID string)
	// InvalidateMember, tek bir üyenin kaydını siler (üye ekleme/çıkarma, danışman atama).
	InvalidateMember(companyID, userID string)
	// InvalidateUser, kullanıcının tüm firmalardaki kayıtlarını siler (platform rolü değişimi).
	InvalidateUser(userID string)
	Close()
}

type permissionService struct {
	members     repository.MemberRepository
	consultants repository.ConsultantRepository
	cache       *cache.TTLCache[string, models.Permission]
}

// NewPermissionService, constructor. Close ile cache temizleyici durdurulur.
func NewPermissionService(members repository.MemberRepository, consultants repository.ConsultantRepository) PermissionService {
	return &permissionService{
		members:     members,
		consultants: consultants,
		cache:       cache.New[string, models.Permission](permissionCacheTTL, time.Minute),
	}
}

func permKey(companyID, userID string) string {
	return companyID + "|" + userID
}

func (s *permissionService) Resolve(ctx context.Context, user *models.User, companyID string) (models.Permission, error) {
	if user.IsAdmin() {
		return models.PermAll, nil
	}

	return s.cache.GetOrLoad(ctx, permKey(companyID, user.ID), func(ctx context.Context) (models.Permission, error) {
		var perms models.Permission

		rolePerms, err := s.members.GetPermissions(ctx, companyID, user.ID)
		switch {
		case err == nil:
			perms |= rolePerms
		case !errors.Is(err, pkg.ErrNotFound):
			return 0, err
		}

		if user.IsConsultant() {
			assigned, err := s.consultants.IsAssigned(ctx, companyID, user.ID)
			if err != nil {
				return 0, err
			}
			if assigned {
				perms |= models.PermConsultant
			}
		}
		return perms, nil
	})
}

func (s *permissionService) Invalidate(companyID string) {
	prefix := companyID + "|"
	s.cache.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

func (s *permissionService) InvalidateMember(companyID, userID string) {
	s.cache.Delete(permKey(companyID, userID))
}

func (s *permissionService) InvalidateUser(userID string) {
	suffix := "|" + userID
	s.cache.DeleteFunc(func(key string) bool {
		return strings.HasSuffix(key, suffix)
	})
}

func (s *permissionService) Close() {
	s.cache.Close()
}
