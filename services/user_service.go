package services

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// UserService, platform admin'in kullanıcı yönetimi.
type UserService interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, actorID string, req *models.AdminCreateUserRequest) (*models.User, error)
	// Update, admin kendi rolünü düşüremez ve kendini pasifleştiremez.
	// Pasifleştirilen kullanıcının tüm oturumları kapatılır; platform rolü
	// değişen kullanıcının cache'teki firma yetkileri düşürülür.
	Update(ctx context.Context, actorID, userID string, req *models.AdminUpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actorID, userID string) error
}

type userService struct {
	users       repository.UserRepository
	sessions    repository.SessionRepository
	permissions PermissionService
	audit       AuditService
}

// NewUserService, constructor.
func NewUserService(users repository.UserRepository, sessions repository.SessionRepository, permissions PermissionService, audit AuditService) UserService {
	return &userService{users: users, sessions: sessions, permissions: permissions, audit: audit}
}

func (s *userService) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid role filter", pkg.ErrBadRequest)
	}
	if filter.Limit <= 0 || filter.Limit > pkg.MaxPageLimit {
		filter.Limit = pkg.DefaultPageLimit
	}
	return s.users.List(ctx, filter)
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) Create(ctx context.Context, actorID string, req *models.AdminCreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		PlatformRole: req.PlatformRole,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, models.AuditCreate, "user", user.ID, map[string]string{"role": string(user.PlatformRole)})
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Update(ctx context.Context, actorID, userID string, req *models.AdminUpdateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	if actorID == userID {
		if req.PlatformRole != nil && *req.PlatformRole != models.PlatformRoleAdmin {
			return nil, fmt.Errorf("%w: you cannot remove your own admin role", pkg.ErrForbidden)
		}
		if req.IsActive != nil && !*req.IsActive {
			return nil, fmt.Errorf("%w: you cannot deactivate your own account", pkg.ErrForbidden)
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	roleChanged := false
	if req.PlatformRole != nil {
		roleChanged = user.PlatformRole != *req.PlatformRole
		user.PlatformRole = *req.PlatformRole
	}
	deactivated := false
	if req.IsActive != nil {
		deactivated = user.IsActive && !*req.IsActive
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if roleChanged || deactivated {
		s.permissions.InvalidateUser(userID)
	}
	if deactivated {
		if err := s.sessions.DeleteByUserID(ctx, userID); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, actorID, models.AuditUpdate, "user", userID, req)
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return fmt.Errorf("%w: you cannot delete your own account", pkg.ErrForbidden)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, models.AuditDelete, "user", userID, nil)
	return nil
}
