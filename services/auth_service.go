// Package services, business logic katmanını barındırır.
//
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır. Şifre hash'leme,
// token üretimi, yetki kontrolleri ve durum geçişleri burada yaşar.
//
// Service http.Request/Response bilmez; sadece domain modelleri alır/verir.
// SQL çalıştırmaz, Repository interface'lerini kullanır.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/crypto"
	"github.com/akinalp/eihracat/pkg/email"
	"github.com/akinalp/eihracat/repository"
)

const (
	tokenIssuer   = "eihracat"
	resetTokenTTL = time.Hour
	resetCooldown = 60 * time.Second
)

// AuthService, kimlik doğrulama ve oturum yönetimi.
//
// Oturum doğrulaması tamamen sunucu tarafındadır: access token'ın jti alanı
// bir session kaydına işaret eder ve her istekte o kaydın varlığı kontrol edilir.
// Logout veya şifre değişikliği sonrası eski access token'lar da geçersizleşir.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest, meta ClientMeta) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest, meta ClientMeta) (*models.AuthResponse, error)
	// Refresh, refresh token'ı döndürür: eski oturum silinir, yenisi açılır.
	Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*models.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error

	// ValidateAccessToken, imzayı, süreyi ve bağlı oturumun hâlâ açık olduğunu doğrular.
	ValidateAccessToken(ctx context.Context, token string) (*models.TokenClaims, error)
	// Session, tek doğrulama noktası: kullanıcı, üyelikler ve efektif yetkiler.
	Session(ctx context.Context, user *models.User, claims *models.TokenClaims) (*models.SessionInfo, error)

	GetMe(ctx context.Context, userID string) (*models.User, error)
	UpdateMe(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error)
	// ChangePassword, şifreyi değiştirir ve mevcut oturum dışındaki tüm oturumları kapatır.
	ChangePassword(ctx context.Context, userID, sessionID string, req *models.ChangePasswordRequest) error

	// ForgotPassword, kullanıcı yoksa veya bekleme süresi dolmadıysa sessizce döner.
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest, lang string) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

type authService struct {
	db          *database.DB
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	resetRepo   repository.PasswordResetRepository
	memberRepo  repository.MemberRepository
	consultants repository.ConsultantRepository
	cipher      *crypto.FieldCipher
	mailer      email.Sender
	publisher   events.Publisher
	log         *zap.Logger

	jwtSecret  []byte
	accessExp  time.Duration
	refreshExp time.Duration
	now        clock
}

// AuthConfig, token süreleri ve imza anahtarı.
type AuthConfig struct {
	JWTSecret          string
	AccessExpiryMinute int
	RefreshExpiryDays  int
}

// NewAuthService, constructor.
func NewAuthService(
	db *database.DB,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	resetRepo repository.PasswordResetRepository,
	memberRepo repository.MemberRepository,
	consultants repository.ConsultantRepository,
	cipher *crypto.FieldCipher,
	mailer email.Sender,
	publisher events.Publisher,
	log *zap.Logger,
	cfg AuthConfig,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		memberRepo:  memberRepo,
		consultants: consultants,
		cipher:      cipher,
		mailer:      mailer,
		publisher:   publisher,
		log:         log,
		jwtSecret:   []byte(cfg.JWTSecret),
		accessExp:   time.Duration(cfg.AccessExpiryMinute) * time.Minute,
		refreshExp:  time.Duration(cfg.RefreshExpiryDays) * 24 * time.Hour,
		now:         systemClock,
	}
}

// Register, self-registration. CompanyName doluysa kullanıcı adına firma açılır
// ve kullanıcı owner olur; ikisi tek transaction'dadır.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest, meta ClientMeta) (*models.AuthResponse, error) {
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
		PlatformRole: models.PlatformRoleCompanyUser,
		IsActive:     true,
	}

	var company *models.Company
	err = database.WithTx(ctx, s.db, func(tx database.TxQuerier) error {
		if err := repository.NewSQLUserRepo(tx).Create(ctx, user); err != nil {
			return err
		}
		if req.CompanyName == "" {
			return nil
		}
		company = &models.Company{
			Name:          req.CompanyName,
			Country:       "TR",
			Status:        models.CompanyStatusPending,
			ExportMarkets: []string{},
		}
		return createCompanyTx(ctx, tx, s.cipher, company, user.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.UserRegistered, user.ID, user.ID, map[string]string{"email": user.Email}))
	if company != nil {
		s.publish(ctx, events.New(events.CompanyCreated, company.ID, user.ID, map[string]string{"name": company.Name}))
	}

	return s.issue(ctx, user, meta)
}

// Login, e-posta + şifre ile giriş. Hata mesajı kullanıcının var olup olmadığını sızdırmaz.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest, meta ClientMeta) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}
	if !checkPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", pkg.ErrForbidden)
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return s.issue(ctx, user, meta)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*models.AuthResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh_token is required", pkg.ErrBadRequest)
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	// Token tek kullanımlıktır; süresi dolmuş olsa da silinir. Satırı bu
	// istek silemediyse eşzamanlı bir Refresh token'ı zaten tüketmiştir.
	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: refresh token already used", pkg.ErrUnauthorized)
		}
		return nil, err
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", pkg.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", pkg.ErrForbidden)
	}

	return s.issue(ctx, user, meta)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return err
	}
	return nil
}

func (s *authService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

func (s *authService) ValidateAccessToken(ctx context.Context, tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: session revoked", pkg.ErrUnauthorized)
		}
		return nil, err
	}
	if session.UserID != claims.UserID || !s.now().Before(session.ExpiresAt) {
		return nil, fmt.Errorf("%w: session expired", pkg.ErrUnauthorized)
	}

	return claims, nil
}

func (s *authService) Session(ctx context.Context, user *models.User, claims *models.TokenClaims) (*models.SessionInfo, error) {
	memberships, err := s.memberRepo.ListMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		for i := range memberships {
			memberships[i].Permissions = models.PermAll
		}
	}

	info := &models.SessionInfo{
		User:        user,
		Memberships: memberships,
	}
	if claims != nil && claims.ExpiresAt != nil {
		info.AccessExpiresAt = claims.ExpiresAt.Time
	}

	if user.IsConsultant() {
		companies, err := s.consultants.ListCompanies(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		info.ConsultantOf = companies

		// Hem üye hem atanmış danışman olunan firmada yetkiler birleşir.
		assigned := make(map[string]bool, len(companies))
		for _, c := range companies {
			assigned[c.ID] = true
		}
		for i := range memberships {
			if assigned[memberships[i].Company.ID] {
				memberships[i].Permissions |= models.PermConsultant
			}
		}
	}

	return info, nil
}

func (s *authService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateMe(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID, sessionID string, req *models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, req.CurrentPassword) {
		return fmt.Errorf("%w: current password is incorrect", pkg.ErrUnauthorized)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	return s.sessionRepo.DeleteOthers(ctx, userID, sessionID)
}

func (s *authService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest, lang string) error {
	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	latest, err := s.resetRepo.GetLatestByUserID(ctx, user.ID)
	switch {
	case err == nil:
		if s.now().Sub(latest.CreatedAt) < resetCooldown {
			s.log.Debug("password reset cooldown active", zap.String("user_id", user.ID))
			return nil
		}
	case !errors.Is(err, pkg.ErrNotFound):
		return err
	}

	token, err := s.createResetToken(ctx, user.ID, resetTokenTTL)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, lang, user.Email, token, resetTokenTTL); err != nil {
		s.log.Warn("failed to send password reset email", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// createResetToken, kullanıcının eski token'larını siler ve yenisini kaydeder.
// Dönen değer e-postaya giden düz metin token'dır.
func (s *authService) createResetToken(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	return issueResetToken(ctx, s.resetRepo, userID, ttl, s.now())
}

// ResetPassword, token'ı tek bir transaction içinde tüketir ve şifreyi değiştirir.
// Token silinemezse (kullanılmış, süresi dolmuş veya eşzamanlı istek kazanmış)
// şifre değişmez.
func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	tokenHash := hashToken(strings.TrimSpace(req.Token))

	return database.WithTx(ctx, s.db, func(tx database.TxQuerier) error {
		resets := repository.NewSQLResetTokenRepo(tx)
		userID, err := resets.Consume(ctx, tokenHash, s.now())
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return fmt.Errorf("%w: invalid or expired token", pkg.ErrBadRequest)
			}
			return err
		}
		if err := repository.NewSQLUserRepo(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		if err := resets.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return repository.NewSQLSessionRepo(tx).DeleteByUserID(ctx, userID)
	})
}

// issue, yeni oturum açar ve token çiftini üretir. Access token'ın jti'si oturum ID'sidir.
func (s *authService) issue(ctx context.Context, user *models.User, meta ClientMeta) (*models.AuthResponse, error) {
	refresh, err := randomToken(32)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: refresh,
		UserAgent:    truncate(meta.UserAgent, 255),
		IPAddress:    meta.IP,
		ExpiresAt:    now.Add(s.refreshExp),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	claims := &models.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.PlatformRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExp)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	user.PasswordHash = ""
	return &models.AuthResponse{
		User: user,
		TokenPair: models.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int(s.accessExp.Seconds()),
		},
	}, nil
}

func (s *authService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", evt.Type), zap.Error(err))
	}
}

// issueResetToken, personel davetinde de kullanılan ortak reset token üretimi.
func issueResetToken(ctx context.Context, repo repository.PasswordResetRepository, userID string, ttl time.Duration, now time.Time) (string, error) {
	token, err := randomToken(32)
	if err != nil {
		return "", err
	}
	if err := repo.DeleteByUserID(ctx, userID); err != nil {
		return "", err
	}
	record := &models.PasswordResetToken{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(ttl),
	}
	if err := repo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
