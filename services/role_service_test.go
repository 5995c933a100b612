package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

func ptr[T any](v T) *T { return &v }

// roleManagerFixture, yalnızca ViewCompany|ManageRoles taşıyan rolde bir personel kurar.
func roleManagerFixture(t *testing.T, env *testEnv) (owner, staff *models.User, c *models.Company, role *models.CompanyRole) {
	t.Helper()
	ctx := context.Background()
	owner = env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	staff = env.seedUser(t, "roles@example.com", models.PlatformRoleCompanyUser)
	c = env.seedCompany(t, "Ege Gıda", owner)

	role, err := env.roleService().Create(ctx, owner, c.ID, &models.CreateRoleRequest{
		Name:        "Rol Sorumlusu",
		Permissions: models.PermViewCompany | models.PermManageRoles,
		Position:    20,
	})
	require.NoError(t, err)
	env.addMemberWithRole(t, c.ID, staff, role.ID)
	return owner, staff, c, role
}

func TestRole_CannotEscalateOwnRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, staff, c, role := roleManagerFixture(t, env)
	svc := env.roleService()

	_, err := svc.Update(ctx, staff, c.ID, role.ID, &models.UpdateRoleRequest{Permissions: ptr(models.PermAll)})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	stored, err := env.roles.GetByID(ctx, c.ID, role.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PermViewCompany|models.PermManageRoles, stored.Permissions)

	perms, err := env.permissions.Resolve(ctx, staff, c.ID)
	require.NoError(t, err)
	assert.False(t, perms.Has(models.PermManageCompany))
}

func TestRole_CreateWithinActorLimits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, staff, c, _ := roleManagerFixture(t, env)
	svc := env.roleService()

	_, err := svc.Create(ctx, staff, c.ID, &models.CreateRoleRequest{
		Name: "Yönetici 2", Permissions: models.PermManageCompany, Position: 10,
	})
	assert.ErrorIs(t, err, pkg.ErrForbidden, "bits the actor does not hold")

	_, err = svc.Create(ctx, staff, c.ID, &models.CreateRoleRequest{
		Name: "Eş Rol", Permissions: models.PermViewCompany, Position: 20,
	})
	assert.ErrorIs(t, err, pkg.ErrForbidden, "position equal to the actor's")

	junior, err := svc.Create(ctx, staff, c.ID, &models.CreateRoleRequest{
		Name: "Stajyer", Permissions: models.PermViewCompany, Position: 10,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, staff, c.ID, junior.ID, &models.UpdateRoleRequest{
		Permissions: ptr(models.PermViewCompany | models.PermManagePersonnel),
	})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.Update(ctx, staff, c.ID, junior.ID, &models.UpdateRoleRequest{Position: ptr(30)})
	assert.ErrorIs(t, err, pkg.ErrForbidden, "cannot lift a role above the actor")

	renamed, err := svc.Update(ctx, staff, c.ID, junior.ID, &models.UpdateRoleRequest{Name: ptr("Asistan")})
	require.NoError(t, err)
	assert.Equal(t, "Asistan", renamed.Name)

	manager, err := env.roles.GetByName(ctx, c.ID, models.RoleNameManager)
	require.NoError(t, err)
	_, err = svc.Update(ctx, staff, c.ID, manager.ID, &models.UpdateRoleRequest{Name: ptr("Müdür")})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	assert.NoError(t, svc.Delete(ctx, staff, c.ID, junior.ID))
}

func TestRole_AdminUnrestricted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, c, role := roleManagerFixture(t, env)
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)

	updated, err := env.roleService().Update(ctx, admin, c.ID, role.ID, &models.UpdateRoleRequest{
		Permissions: ptr(models.PermAll &^ models.PermAdmin),
		Position:    ptr(99),
	})
	require.NoError(t, err)
	assert.Equal(t, 99, updated.Position)
}

func TestPersonnel_CannotAssignHigherRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, _, c, roleManagerRole := roleManagerFixture(t, env)
	svc := env.companyService()

	manager, err := env.roles.GetByName(ctx, c.ID, models.RoleNameManager)
	require.NoError(t, err)
	boss := env.seedUser(t, "manager@example.com", models.PlatformRoleCompanyUser)
	env.addMemberWithRole(t, c.ID, boss, manager.ID)
	peer := env.seedUser(t, "peer@example.com", models.PlatformRoleCompanyUser)
	env.addMemberWithRole(t, c.ID, peer, manager.ID)
	staff := env.seedUser(t, "staff@example.com", models.PlatformRoleCompanyUser)
	env.addMember(t, c.ID, staff)

	// Manager kendini veya eşini yönetemez.
	_, err = svc.UpdatePersonnel(ctx, boss, c.ID, boss.ID, &models.UpdatePersonnelRequest{Title: ptr("Genel Müdür")})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	assert.ErrorIs(t, svc.RemovePersonnel(ctx, boss, c.ID, peer.ID), pkg.ErrForbidden)

	// Kendi position'ındaki rolü dağıtamaz.
	_, err = svc.UpdatePersonnel(ctx, boss, c.ID, staff.ID, &models.UpdatePersonnelRequest{RoleID: &manager.ID})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	_, err = svc.AddPersonnel(ctx, boss, c.ID, &models.AddPersonnelRequest{Email: "new@example.com", RoleID: manager.ID}, "tr")
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	// Daha alt position'da olsa da sahip olmadığı ManageRoles'ı veremez.
	_, err = svc.UpdatePersonnel(ctx, boss, c.ID, staff.ID, &models.UpdatePersonnelRequest{RoleID: &roleManagerRole.ID})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	// Varsayılan rolde personel eklemek ve alttakini yönetmek serbest.
	_, err = svc.AddPersonnel(ctx, boss, c.ID, &models.AddPersonnelRequest{Email: "new@example.com"}, "tr")
	require.NoError(t, err)
	_, err = svc.UpdatePersonnel(ctx, boss, c.ID, staff.ID, &models.UpdatePersonnelRequest{Title: ptr("Satış")})
	require.NoError(t, err)
	require.NoError(t, svc.RemovePersonnel(ctx, boss, c.ID, staff.ID))

	// Owner için sınır yok.
	_, err = svc.UpdatePersonnel(ctx, owner, c.ID, peer.ID, &models.UpdatePersonnelRequest{RoleID: &roleManagerRole.ID})
	require.NoError(t, err)
}
