// Package main: Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve paylaşılan
// altyapıyı (hub, publisher, mailer, cipher) constructor injection ile alır.
//
// Sıralama: audit ve permission service'leri diğerlerinden ÖNCE kurulur,
// çünkü company, role, consultant ve admin service'leri onlara bağımlıdır.
package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/config"
	"github.com/akinalp/eihracat/pkg/ratelimit"
	"github.com/akinalp/eihracat/services"
)

const (
	cleanupInterval = time.Hour
	auditRetention  = 180 * 24 * time.Hour
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Company     services.CompanyService
	Role        services.RoleService
	Consultant  services.ConsultantService
	Permission  services.PermissionService
	Project     services.ProjectService
	Training    services.TrainingService
	Forum       services.ForumService
	News        services.NewsService
	Appointment services.AppointmentService
	Report      services.ReportService
	Dashboard   services.DashboardService
	Contact     services.ContactService
	Pricing     services.PricingService
	Audit       services.AuditService
}

// RateLimiters, IP bazlı limiter'lar. Shutdown'da Close edilir.
type RateLimiters struct {
	Login   *ratelimit.Limiter
	Contact *ratelimit.Limiter
}

// Close, limiter'ların temizlik goroutine'lerini durdurur.
func (l *RateLimiters) Close() {
	l.Login.Close()
	l.Contact.Close()
}

// initServices, tüm service'leri, rate limiter'ları ve bakım worker'ını oluşturur.
func initServices(infra *Infra, repos *Repositories, cfg *config.Config) (*Services, *RateLimiters, services.CleanupWorker) {
	log := infra.Log

	// ─── Paylaşılan service'ler ───
	auditService := services.NewAuditService(repos.Audit, log.Named("audit"))
	permissionService := services.NewPermissionService(repos.Member, repos.Consultant)

	authService := services.NewAuthService(
		infra.DB, repos.User, repos.Session, repos.ResetToken, repos.Member, repos.Consultant,
		infra.Cipher, infra.Mailer, infra.Publisher, log.Named("auth"),
		services.AuthConfig{
			JWTSecret:          cfg.JWT.Secret,
			AccessExpiryMinute: cfg.JWT.AccessTokenExpiry,
			RefreshExpiryDays:  cfg.JWT.RefreshTokenExpiry,
		},
	)

	companyService := services.NewCompanyService(
		infra.DB, repos.Company, repos.Role, repos.Member, repos.User, repos.ResetToken,
		permissionService, auditService, infra.Cipher, infra.Mailer, infra.Publisher, log.Named("company"),
	)

	svcs := &Services{
		Auth:       authService,
		User:       services.NewUserService(repos.User, repos.Session, permissionService, auditService),
		Company:    companyService,
		Role:       services.NewRoleService(repos.Role, repos.Member, permissionService),
		Consultant: services.NewConsultantService(repos.Consultant, repos.Company, repos.User, permissionService, auditService),
		Permission: permissionService,
		Project:    services.NewProjectService(repos.Project, repos.Task, repos.Member, infra.Hub, log.Named("project")),
		Training:   services.NewTrainingService(repos.Training, auditService),
		Forum:      services.NewForumService(infra.DB, repos.Forum, repos.Member, auditService),
		News:       services.NewNewsService(repos.News, infra.Hub, infra.Publisher, auditService, log.Named("news")),
		Appointment: services.NewAppointmentService(
			repos.Appointment, repos.Company, repos.Consultant, repos.User,
			infra.Hub, infra.Mailer, infra.Publisher, log.Named("appointment"),
		),
		Report: services.NewReportService(
			repos.Report, repos.Project, repos.Task, repos.Appointment, repos.Training,
			repos.Consultant, repos.Company, infra.Hub, infra.Publisher, log.Named("report"),
		),
		Dashboard: services.NewDashboardService(
			repos.User, repos.Company, repos.Project, repos.Task, repos.Appointment,
			repos.Training, repos.News, repos.Forum, repos.Contact,
		),
		Contact: services.NewContactService(
			repos.Contact, infra.Mailer, cfg.Email.AdminInbox, infra.Publisher, auditService, log.Named("contact"),
		),
		Pricing: services.NewPricingService(repos.Pricing, auditService, log.Named("pricing")),
		Audit:   auditService,
	}

	// ─── Rate Limiters ───
	limiters := &RateLimiters{
		Login:   ratelimit.New(cfg.RateLimit.LoginMax, cfg.RateLimit.LoginWindow),
		Contact: ratelimit.New(cfg.RateLimit.ContactMax, cfg.RateLimit.ContactWindow),
	}

	// ─── Bakım worker'ı ───
	cleanup := services.NewCleanupWorker(
		repos.Session, repos.ResetToken, auditService, log.Named("cleanup"),
		cleanupInterval, auditRetention,
	)

	log.Info("services initialized",
		zap.Int("login_limit", cfg.RateLimit.LoginMax),
		zap.Int("contact_limit", cfg.RateLimit.ContactMax),
	)

	return svcs, limiters, cleanup
}
