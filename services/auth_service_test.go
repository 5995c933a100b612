package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

func TestAuth_RegisterWithCompany(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		Email:       "Owner@Example.com",
		Password:    "supersecret",
		FullName:    "Ayşe Yılmaz",
		CompanyName: "Anadolu Tekstil",
	}, ClientMeta{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	memberships, err := env.members.ListMemberships(ctx, resp.User.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.True(t, memberships[0].Permissions.Has(models.PermManageCompany))

	assert.Equal(t, []string{events.UserRegistered, events.CompanyCreated}, env.events.Types())
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "dup@example.com", models.PlatformRoleCompanyUser)

	_, err := env.authService().Register(context.Background(), &models.RegisterRequest{
		Email: "dup@example.com", Password: "supersecret", FullName: "Dup User",
	}, ClientMeta{})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestAuth_LoginValidateAndLogout(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "user@example.com", Password: "supersecret", FullName: "Test User",
	}, ClientMeta{})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "wrong-password"}, ClientMeta{})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "USER@example.com", Password: "supersecret"}, ClientMeta{})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))

	// Oturum silinince access token da geçersizleşir.
	_, err = svc.ValidateAccessToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestAuth_RefreshRotates(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := context.Background()

	first, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "rot@example.com", Password: "supersecret", FullName: "Rotating User",
	}, ClientMeta{})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken, ClientMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken, ClientMeta{})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestAuth_ValidateRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.authService().ValidateAccessToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestAuth_ForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "forgot@example.com", Password: "supersecret", FullName: "Forgetful User",
	}, ClientMeta{})
	require.NoError(t, err)

	// Bilinmeyen adres sessizce yutulur.
	require.NoError(t, svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "nobody@example.com"}, "tr"))
	assert.Empty(t, env.mailer.Sent())

	require.NoError(t, svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "forgot@example.com"}, "tr"))
	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "reset", sent[0].Kind)

	// Cooldown içinde ikinci istek mail göndermez.
	require.NoError(t, svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "forgot@example.com"}, "tr"))
	assert.Len(t, env.mailer.Sent(), 1)

	require.NoError(t, svc.ResetPassword(ctx, &models.ResetPasswordRequest{Token: sent[0].Token, NewPassword: "brand-new-pass"}))

	// Tüm oturumlar kapanır, token tekrar kullanılamaz.
	_, err = svc.ValidateAccessToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	err = svc.ResetPassword(ctx, &models.ResetPasswordRequest{Token: sent[0].Token, NewPassword: "another-pass"})
	assert.Error(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "forgot@example.com", Password: "brand-new-pass"}, ClientMeta{})
	assert.NoError(t, err)
}

func TestAuth_ExpiredAccessToken(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService().(*authService)
	ctx := context.Background()

	base := time.Now().UTC()
	svc.now = fixedClock(base)
	resp, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "exp@example.com", Password: "supersecret", FullName: "Expiring User",
	}, ClientMeta{})
	require.NoError(t, err)

	svc.now = fixedClock(base.Add(16 * time.Minute))
	_, err = svc.ValidateAccessToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

// raceSessions, GetByRefreshToken ile DeleteByID arasında başka bir isteğin
// aynı oturumu tükettiği durumu canlandırır.
type raceSessions struct {
	repository.SessionRepository
}

func (r raceSessions) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	session, err := r.SessionRepository.GetByRefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := r.SessionRepository.DeleteByID(ctx, session.ID); err != nil {
		return nil, err
	}
	return session, nil
}

func TestAuth_RefreshLosesRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.authService().Register(ctx, &models.RegisterRequest{
		Email: "race@example.com", Password: "supersecret", FullName: "Racing User",
	}, ClientMeta{})
	require.NoError(t, err)

	svc := NewAuthService(env.db, env.users, raceSessions{env.sessions}, env.resets, env.members, env.consultants,
		env.cipher, env.mailer, env.events, env.log,
		AuthConfig{JWTSecret: "test-secret", AccessExpiryMinute: 15, RefreshExpiryDays: 7})

	resp, err := svc.Refresh(ctx, first.RefreshToken, ClientMeta{})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	assert.Nil(t, resp)

	u, err := env.users.GetByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	sessions, err := env.sessions.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions, "losing request must not mint a new session")
}

func TestAuth_ResetTokenSingleUse(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService().(*authService)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "once@example.com", Password: "supersecret", FullName: "Once User",
	}, ClientMeta{})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "once@example.com"}, "tr"))
	token := env.mailer.Sent()[0].Token

	require.NoError(t, svc.ResetPassword(ctx, &models.ResetPasswordRequest{Token: token, NewPassword: "first-new-pass"}))
	err = svc.ResetPassword(ctx, &models.ResetPasswordRequest{Token: token, NewPassword: "second-new-pass"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	// İkinci deneme şifreyi değiştirmemiş olmalı.
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "once@example.com", Password: "second-new-pass"}, ClientMeta{})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "once@example.com", Password: "first-new-pass"}, ClientMeta{})
	assert.NoError(t, err)
}

func TestAuth_ResetTokenExpired(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService().(*authService)
	ctx := context.Background()

	base := time.Now().UTC()
	svc.now = fixedClock(base)
	_, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "late@example.com", Password: "supersecret", FullName: "Late User",
	}, ClientMeta{})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "late@example.com"}, "tr"))
	token := env.mailer.Sent()[0].Token

	svc.now = fixedClock(base.Add(resetTokenTTL + time.Minute))
	err = svc.ResetPassword(ctx, &models.ResetPasswordRequest{Token: token, NewPassword: "too-late-pass"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestAuth_ChangePasswordKeepsCurrentSession(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := context.Background()

	other, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "change@example.com", Password: "supersecret", FullName: "Changing User",
	}, ClientMeta{})
	require.NoError(t, err)
	current, err := svc.Login(ctx, &models.LoginRequest{Email: "change@example.com", Password: "supersecret"}, ClientMeta{})
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(ctx, current.AccessToken)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, claims.UserID, claims.ID, &models.ChangePasswordRequest{
		CurrentPassword: "wrong-password", NewPassword: "even-more-secret",
	})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, claims.UserID, claims.ID, &models.ChangePasswordRequest{
		CurrentPassword: "supersecret", NewPassword: "even-more-secret",
	}))

	// Diğer cihazdaki oturum kapanır, şifreyi değiştiren oturum açık kalır.
	_, err = svc.ValidateAccessToken(ctx, other.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	_, err = svc.Refresh(ctx, other.RefreshToken, ClientMeta{})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	_, err = svc.ValidateAccessToken(ctx, current.AccessToken)
	assert.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "change@example.com", Password: "supersecret"}, ClientMeta{})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "change@example.com", Password: "even-more-secret"}, ClientMeta{})
	assert.NoError(t, err)
}

func TestAuth_SessionInfo(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := context.Background()

	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	consultant := env.seedUser(t, "consultant@example.com", models.PlatformRoleConsultant)
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	own := env.seedCompany(t, "Ege Gıda", owner)
	other := env.seedCompany(t, "Marmara Tekstil", env.seedUser(t, "boss@example.com", models.PlatformRoleCompanyUser))
	third := env.seedCompany(t, "Karadeniz Fındık", env.seedUser(t, "findik@example.com", models.PlatformRoleCompanyUser))
	env.addMember(t, other.ID, owner)
	env.addMember(t, other.ID, consultant)
	env.addMember(t, other.ID, admin)
	require.NoError(t, env.consultants.Assign(ctx, other.ID, consultant.ID))
	require.NoError(t, env.consultants.Assign(ctx, third.ID, consultant.ID))

	permsOf := func(info *models.SessionInfo) map[string]models.Permission {
		out := map[string]models.Permission{}
		for _, m := range info.Memberships {
			out[m.Company.ID] = m.Permissions
		}
		return out
	}

	expires := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)
	info, err := svc.Session(ctx, owner, &models.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)}})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, info.User.ID)
	assert.True(t, expires.Equal(info.AccessExpiresAt))
	assert.Equal(t, map[string]models.Permission{
		own.ID:   models.PermAll,
		other.ID: models.PermDefaultMember,
	}, permsOf(info))
	assert.Empty(t, info.ConsultantOf)

	info, err = svc.Session(ctx, consultant, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Permission{
		other.ID: models.PermDefaultMember | models.PermConsultant,
	}, permsOf(info))
	var consulted []string
	for _, c := range info.ConsultantOf {
		consulted = append(consulted, c.ID)
	}
	assert.ElementsMatch(t, []string{other.ID, third.ID}, consulted)

	info, err = svc.Session(ctx, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Permission{other.ID: models.PermAll}, permsOf(info))
}
