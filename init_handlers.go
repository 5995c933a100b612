// Package main: Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Her handler ihtiyaç duyduğu service interface'lerini constructor'dan alır.
package main

import (
	"github.com/akinalp/eihracat/config"
	"github.com/akinalp/eihracat/handlers"
	"github.com/akinalp/eihracat/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Company     *handlers.CompanyHandler
	Role        *handlers.RoleHandler
	Consultant  *handlers.ConsultantHandler
	Project     *handlers.ProjectHandler
	Training    *handlers.TrainingHandler
	Forum       *handlers.ForumHandler
	News        *handlers.NewsHandler
	Appointment *handlers.AppointmentHandler
	Report      *handlers.ReportHandler
	Dashboard   *handlers.DashboardHandler
	Contact     *handlers.ContactHandler
	Pricing     *handlers.PricingHandler
	Admin       *handlers.AdminHandler
	WS          *ws.Handler
}

// initHandlers, tüm handler'ları service ve rate limiter dependency'leri ile oluşturur.
func initHandlers(svcs *Services, limiters *RateLimiters, hub *ws.Hub, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:        handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		User:        handlers.NewUserHandler(svcs.User),
		Company:     handlers.NewCompanyHandler(svcs.Company),
		Role:        handlers.NewRoleHandler(svcs.Role),
		Consultant:  handlers.NewConsultantHandler(svcs.Consultant),
		Project:     handlers.NewProjectHandler(svcs.Project),
		Training:    handlers.NewTrainingHandler(svcs.Training),
		Forum:       handlers.NewForumHandler(svcs.Forum),
		News:        handlers.NewNewsHandler(svcs.News),
		Appointment: handlers.NewAppointmentHandler(svcs.Appointment),
		Report:      handlers.NewReportHandler(svcs.Report),
		Dashboard:   handlers.NewDashboardHandler(svcs.Dashboard),
		Contact:     handlers.NewContactHandler(svcs.Contact),
		Pricing:     handlers.NewPricingHandler(svcs.Pricing),
		Admin:       handlers.NewAdminHandler(svcs.Audit),
		WS:          ws.NewHandler(hub, svcs.Auth, cfg.Server.AllowedOrigins),
	}
}
