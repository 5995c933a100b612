package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

func TestUser_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	svc := NewUserService(env.users, env.sessions, env.permissions, env.audit)

	created, err := svc.Create(ctx, admin.ID, &models.AdminCreateUserRequest{
		Email:        "  Danisman@Example.com ",
		Password:     "supersecret",
		FullName:     "Deniz Danışman",
		PlatformRole: models.PlatformRoleConsultant,
	})
	require.NoError(t, err)
	assert.Equal(t, "danisman@example.com", created.Email)
	assert.Empty(t, created.PasswordHash)

	_, err = svc.Create(ctx, admin.ID, &models.AdminCreateUserRequest{
		Email: "danisman@example.com", Password: "supersecret", FullName: "Kopya",
	})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	consultants, total, err := svc.List(ctx, models.UserFilter{Role: models.PlatformRoleConsultant})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, consultants, 1)
	assert.Equal(t, created.ID, consultants[0].ID)

	_, _, err = svc.List(ctx, models.UserFilter{Role: "superuser"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	logs, n, err := env.audit.List(ctx, models.AuditFilter{EntityType: "user", ActorID: admin.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.AuditCreate, logs[0].Action)
	assert.Equal(t, created.ID, logs[0].EntityID)
}

func TestUser_SelfProtection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	svc := NewUserService(env.users, env.sessions, env.permissions, env.audit)

	demote := models.PlatformRoleCompanyUser
	_, err := svc.Update(ctx, admin.ID, admin.ID, &models.AdminUpdateUserRequest{PlatformRole: &demote})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	inactive := false
	_, err = svc.Update(ctx, admin.ID, admin.ID, &models.AdminUpdateUserRequest{IsActive: &inactive})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, admin.ID, admin.ID), pkg.ErrForbidden)

	name := "Yeni Ad"
	updated, err := svc.Update(ctx, admin.ID, admin.ID, &models.AdminUpdateUserRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Yeni Ad", updated.FullName)
}

func TestUser_DeactivationRevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	member := env.seedUser(t, "member@example.com", models.PlatformRoleCompanyUser)
	svc := NewUserService(env.users, env.sessions, env.permissions, env.audit)

	require.NoError(t, env.sessions.Create(ctx, &models.Session{
		UserID: member.ID, RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, env.sessions.Create(ctx, &models.Session{
		UserID: member.ID, RefreshToken: "r2", ExpiresAt: time.Now().Add(time.Hour),
	}))

	inactive := false
	updated, err := svc.Update(ctx, admin.ID, member.ID, &models.AdminUpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	sessions, err := env.sessions.ListByUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	require.NoError(t, svc.Delete(ctx, admin.ID, member.ID))
	_, err = svc.Get(ctx, member.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestUser_RoleChangeDropsCachedPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	consultant := env.seedUser(t, "consultant@example.com", models.PlatformRoleConsultant)
	c := env.seedCompany(t, "Ege Gıda", owner)
	require.NoError(t, env.consultants.Assign(ctx, c.ID, consultant.ID))

	perms, err := env.permissions.Resolve(ctx, consultant, c.ID)
	require.NoError(t, err)
	require.True(t, perms.Has(models.PermManageTasks))

	svc := NewUserService(env.users, env.sessions, env.permissions, env.audit)
	role := models.PlatformRoleCompanyUser
	demoted, err := svc.Update(ctx, admin.ID, consultant.ID, &models.AdminUpdateUserRequest{PlatformRole: &role})
	require.NoError(t, err)

	// Atama satırı dursa da danışman olmayan kullanıcı danışman yetkisi almaz.
	perms, err = env.permissions.Resolve(ctx, demoted, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Permission(0), perms)
}
