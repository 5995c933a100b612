package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// authority, bir kullanıcının firmadaki rol yönetimi tavanı: efektif yetkisi
// ve sahip olduğu rolün position'ı. PermAdmin taşıyan (platform admin, owner)
// kısıtlanmaz.
type authority struct {
	perms    models.Permission
	position int
}

func (a authority) unrestricted() bool { return a.perms&models.PermAdmin != 0 }

// checkGrant, kullanıcının sahip olmadığı bir yetkiyi dağıtmasını engeller.
func (a authority) checkGrant(perms models.Permission) error {
	if a.unrestricted() || perms&^a.perms == 0 {
		return nil
	}
	return fmt.Errorf("%w: cannot grant permissions you do not hold", pkg.ErrForbidden)
}

// checkRank, kendi rolüne eşit veya üstündeki bir role dokunulmasını engeller.
func (a authority) checkRank(position int) error {
	if a.unrestricted() || position < a.position {
		return nil
	}
	return fmt.Errorf("%w: role is not below your highest role", pkg.ErrForbidden)
}

// checkRole, rolün hem position'ını hem yetkilerini aynı anda denetler.
func (a authority) checkRole(role *models.CompanyRole) error {
	if err := a.checkRank(role.Position); err != nil {
		return err
	}
	return a.checkGrant(role.Permissions)
}

// resolveAuthority, actor'ün efektif yetkisini PermissionService'ten, rol
// position'ını üyelik kaydından okur. Üye olmayan (ör. danışman) position 0 alır.
func resolveAuthority(
	ctx context.Context,
	permissions PermissionService,
	members repository.MemberRepository,
	roles repository.RoleRepository,
	actor *models.User,
	companyID string,
) (authority, error) {
	if actor == nil {
		return authority{}, pkg.ErrUnauthorized
	}

	perms, err := permissions.Resolve(ctx, actor, companyID)
	if err != nil {
		return authority{}, err
	}
	a := authority{perms: perms}
	if a.unrestricted() {
		return a, nil
	}

	member, err := members.Get(ctx, companyID, actor.ID)
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		return a, nil
	case err != nil:
		return authority{}, err
	}
	role, err := roles.GetByID(ctx, companyID, member.RoleID)
	if err != nil {
		return authority{}, err
	}
	a.position = role.Position
	return a, nil
}
