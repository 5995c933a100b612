package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

func TestCompany_TaxNumberEncryptedAtRest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	c := env.seedCompany(t, "Ege Gıda", owner)

	svc := env.companyService()
	tax := "1234567890"
	_, err := svc.Update(ctx, c.ID, &models.UpdateCompanyRequest{TaxNumber: &tax})
	require.NoError(t, err)

	raw, err := env.companies.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw.TaxNumber, "enc:"), "stored value should be ciphertext")

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, tax, got.TaxNumber)
}

func TestCompany_UpdateStatusForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	c := env.seedCompany(t, "Ege Gıda", owner)

	status := models.CompanyStatusActive
	_, err := env.companyService().Update(context.Background(), c.ID, &models.UpdateCompanyRequest{Status: &status})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestCompany_AddPersonnelInvitesNewUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	c := env.seedCompany(t, "Ege Gıda", owner)

	member, err := env.companyService().AddPersonnel(ctx, owner, c.ID, &models.AddPersonnelRequest{
		Email: "New.Hire@example.com", FullName: "Yeni Personel", Title: "Satış",
	}, "tr")
	require.NoError(t, err)

	invited, err := env.users.GetByEmail(ctx, "new.hire@example.com")
	require.NoError(t, err)
	assert.Equal(t, invited.ID, member.UserID)

	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "welcome", sent[0].Kind)
	assert.NotEmpty(t, sent[0].Token, "welcome mail carries a set-password token")

	personnel, err := env.companyService().ListPersonnel(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, personnel, 2)
}

func TestCompany_AddPersonnelExistingUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	existing := env.seedUser(t, "staff@example.com", models.PlatformRoleCompanyUser)
	c := env.seedCompany(t, "Ege Gıda", owner)

	member, err := env.companyService().AddPersonnel(ctx, owner, c.ID, &models.AddPersonnelRequest{Email: "staff@example.com"}, "tr")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, member.UserID)
	assert.Empty(t, env.mailer.Sent())

	_, err = env.companyService().AddPersonnel(ctx, owner, c.ID, &models.AddPersonnelRequest{Email: "staff@example.com"}, "tr")
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestCompany_OwnerProtected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	c := env.seedCompany(t, "Ege Gıda", owner)
	svc := env.companyService()

	err := svc.RemovePersonnel(ctx, owner, c.ID, owner.ID)
	assert.ErrorIs(t, err, pkg.ErrConflict)

	manager, err := env.roles.GetByName(ctx, c.ID, models.RoleNameManager)
	require.NoError(t, err)
	_, err = svc.UpdatePersonnel(ctx, owner, c.ID, owner.ID, &models.UpdatePersonnelRequest{RoleID: &manager.ID})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestPermission_ResolveAndInvalidate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	staff := env.seedUser(t, "staff@example.com", models.PlatformRoleCompanyUser)
	consultant := env.seedUser(t, "consultant@example.com", models.PlatformRoleConsultant)
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	outsider := env.seedUser(t, "outsider@example.com", models.PlatformRoleCompanyUser)
	c := env.seedCompany(t, "Ege Gıda", owner)
	env.addMember(t, c.ID, staff)

	perms, err := env.permissions.Resolve(ctx, staff, c.ID)
	require.NoError(t, err)
	assert.True(t, perms.Has(models.PermViewCompany))
	assert.False(t, perms.Has(models.PermManagePersonnel))

	perms, err = env.permissions.Resolve(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PermAll, perms)

	perms, err = env.permissions.Resolve(ctx, outsider, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Permission(0), perms)

	consultants := NewConsultantService(env.consultants, env.companies, env.users, env.permissions, env.audit)
	require.NoError(t, consultants.Assign(ctx, admin.ID, c.ID, consultant.ID))
	perms, err = env.permissions.Resolve(ctx, consultant, c.ID)
	require.NoError(t, err)
	assert.True(t, perms.Has(models.PermManageTasks))
	assert.False(t, perms.Has(models.PermManageCompany))

	// Rol değişikliği cache'i düşürür.
	manager, err := env.roles.GetByName(ctx, c.ID, models.RoleNameManager)
	require.NoError(t, err)
	_, err = env.companyService().UpdatePersonnel(ctx, owner, c.ID, staff.ID, &models.UpdatePersonnelRequest{RoleID: &manager.ID})
	require.NoError(t, err)
	perms, err = env.permissions.Resolve(ctx, staff, c.ID)
	require.NoError(t, err)
	assert.True(t, perms.Has(models.PermManagePersonnel))
}

func TestRole_DeleteGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	c := env.seedCompany(t, "Ege Gıda", owner)
	svc := env.roleService()

	ownerRole, err := env.roles.GetByName(ctx, c.ID, models.RoleNameOwner)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, owner, c.ID, ownerRole.ID), pkg.ErrForbidden)

	custom, err := svc.Create(ctx, owner, c.ID, &models.CreateRoleRequest{Name: "İhracat Uzmanı", Permissions: models.PermViewCompany, Position: 10})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, owner, c.ID, custom.ID))
}
