// RoleService: firma içi rol CRUD iş mantığı.
//
// Her firmanın üç varsayılan rolü vardır (owner, manager, member). Owner rolü
// düzenlenemez ve silinemez; varsayılan rol ve üyesi olan roller silinemez.
//
// Hiyerarşi: actor yalnızca kendi rolünün altındaki (position) rolleri
// yönetebilir ve sahip olmadığı yetkiyi bir role veremez.
package services

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// RoleService, rol yönetimi iş mantığı interface'i.
type RoleService interface {
	List(ctx context.Context, companyID string) ([]models.CompanyRole, error)
	Create(ctx context.Context, actor *models.User, companyID string, req *models.CreateRoleRequest) (*models.CompanyRole, error)
	Update(ctx context.Context, actor *models.User, companyID, roleID string, req *models.UpdateRoleRequest) (*models.CompanyRole, error)
	Delete(ctx context.Context, actor *models.User, companyID, roleID string) error
}

type roleService struct {
	roles       repository.RoleRepository
	members     repository.MemberRepository
	permissions PermissionService
}

// NewRoleService, RoleService implementasyonunu oluşturur.
func NewRoleService(roles repository.RoleRepository, members repository.MemberRepository, permissions PermissionService) RoleService {
	return &roleService{roles: roles, members: members, permissions: permissions}
}

func (s *roleService) authority(ctx context.Context, actor *models.User, companyID string) (authority, error) {
	return resolveAuthority(ctx, s.permissions, s.members, s.roles, actor, companyID)
}

func (s *roleService) List(ctx context.Context, companyID string) ([]models.CompanyRole, error) {
	return s.roles.ListByCompany(ctx, companyID)
}

func (s *roleService) Create(ctx context.Context, actor *models.User, companyID string, req *models.CreateRoleRequest) (*models.CompanyRole, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	auth, err := s.authority(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}
	if err := auth.checkRank(req.Position); err != nil {
		return nil, err
	}
	if err := auth.checkGrant(req.Permissions); err != nil {
		return nil, err
	}

	role := &models.CompanyRole{
		CompanyID:   companyID,
		Name:        req.Name,
		Permissions: req.Permissions,
		Position:    req.Position,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) Update(ctx context.Context, actor *models.User, companyID, roleID string, req *models.UpdateRoleRequest) (*models.CompanyRole, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	role, err := s.roles.GetByID(ctx, companyID, roleID)
	if err != nil {
		return nil, err
	}
	if role.IsOwner() {
		return nil, fmt.Errorf("%w: the owner role cannot be modified", pkg.ErrForbidden)
	}

	auth, err := s.authority(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}
	if err := auth.checkRank(role.Position); err != nil {
		return nil, err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Permissions != nil {
		role.Permissions = *req.Permissions
	}
	if req.Position != nil {
		role.Position = *req.Position
	}
	// Sonuç rol de actor'ün altında kalmalı ve yetkileri actor'ünkini aşmamalı.
	if err := auth.checkRole(role); err != nil {
		return nil, err
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	s.permissions.Invalidate(companyID)
	return role, nil
}

func (s *roleService) Delete(ctx context.Context, actor *models.User, companyID, roleID string) error {
	role, err := s.roles.GetByID(ctx, companyID, roleID)
	if err != nil {
		return err
	}
	if role.IsOwner() || role.IsDefault {
		return fmt.Errorf("%w: default roles cannot be deleted", pkg.ErrForbidden)
	}

	auth, err := s.authority(ctx, actor, companyID)
	if err != nil {
		return err
	}
	if err := auth.checkRank(role.Position); err != nil {
		return err
	}

	n, err := s.roles.CountMembers(ctx, roleID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: role is assigned to %d member(s)", pkg.ErrConflict, n)
	}

	if err := s.roles.Delete(ctx, companyID, roleID); err != nil {
		return err
	}
	s.permissions.Invalidate(companyID)
	return nil
}
