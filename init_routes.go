// Package main: HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth: access token doğrulaması (Bearer header veya cookie)
//   - authCompany: auth + firma üyeliği + belirli permission kontrolü
//   - authAdmin: auth + platform admin
//   - authConsultant: auth + danışman veya admin
package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/middleware"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
	"github.com/akinalp/eihracat/static"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Literal path segmentleri (ör. /api/trainings/videos/...) Go 1.22 router'ında
// parametrik olanlardan daha spesifik sayılır, tanım sırası önemli değildir.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	svcs *Services,
	users repository.UserRepository,
	limiters *RateLimiters,
	log *zap.Logger,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(svcs.Auth, users, log.Named("auth"))
	companyMw := middleware.NewCompanyMiddleware(svcs.Permission)
	contactLimit := middleware.RateLimit(limiters.Contact)

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}
	authCompany := func(perm models.Permission, handler http.HandlerFunc) http.Handler {
		return authMw.Require(companyMw.Require(perm, handler))
	}
	authAdmin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(middleware.RequireAdmin(handler))
	}
	authConsultant := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(middleware.RequireConsultant(handler))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "eihracat"})
	})

	// ╔══════════════════════════════════════════╗
	// ║  AUTH                                     ║
	// ╚══════════════════════════════════════════╝

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.Auth.ResetPassword)
	mux.Handle("POST /api/auth/logout-all", auth(h.Auth.LogoutAll))
	mux.Handle("GET /api/auth/session", auth(h.Auth.Session))
	mux.Handle("GET /api/auth/me", auth(h.Auth.Me))
	mux.Handle("PATCH /api/auth/me", auth(h.Auth.UpdateMe))
	mux.Handle("POST /api/auth/change-password", auth(h.Auth.ChangePassword))

	// ╔══════════════════════════════════════════╗
	// ║  PUBLIC                                   ║
	// ╚══════════════════════════════════════════╝

	mux.Handle("POST /api/contact", contactLimit(http.HandlerFunc(h.Contact.Submit)))

	mux.HandleFunc("GET /api/pricing", h.Pricing.List)
	mux.HandleFunc("POST /api/pricing/quote", h.Pricing.Quote)
	mux.HandleFunc("GET /api/pricing/{code}", h.Pricing.Get)

	mux.HandleFunc("GET /api/news", h.News.ListPublished)
	mux.HandleFunc("GET /api/news/{id}", h.News.GetPublished)

	// ╔══════════════════════════════════════════╗
	// ║  USERS (platform admin)                   ║
	// ╚══════════════════════════════════════════╝

	mux.Handle("GET /api/users", authAdmin(h.User.List))
	mux.Handle("POST /api/users", authAdmin(h.User.Create))
	mux.Handle("GET /api/users/{id}", authAdmin(h.User.Get))
	mux.Handle("PATCH /api/users/{id}", authAdmin(h.User.Update))
	mux.Handle("DELETE /api/users/{id}", authAdmin(h.User.Delete))

	// ╔══════════════════════════════════════════╗
	// ║  COMPANY-SCOPED ROUTES                    ║
	// ╚══════════════════════════════════════════╝

	mux.Handle("GET /api/companies", auth(h.Company.ListMine))
	mux.Handle("GET /api/companies/{companyId}", authCompany(models.PermViewCompany, h.Company.Get))
	mux.Handle("PATCH /api/companies/{companyId}", authCompany(models.PermManageCompany, h.Company.Update))
	mux.Handle("GET /api/companies/{companyId}/dashboard", authCompany(models.PermViewCompany, h.Dashboard.Company))

	// Personnel
	mux.Handle("GET /api/companies/{companyId}/personnel", authCompany(models.PermViewCompany, h.Company.ListPersonnel))
	mux.Handle("POST /api/companies/{companyId}/personnel", authCompany(models.PermManagePersonnel, h.Company.AddPersonnel))
	mux.Handle("PATCH /api/companies/{companyId}/personnel/{userId}", authCompany(models.PermManagePersonnel, h.Company.UpdatePersonnel))
	mux.Handle("DELETE /api/companies/{companyId}/personnel/{userId}", authCompany(models.PermManagePersonnel, h.Company.RemovePersonnel))

	// Roles
	mux.Handle("GET /api/companies/{companyId}/roles", authCompany(models.PermViewCompany, h.Role.List))
	mux.Handle("POST /api/companies/{companyId}/roles", authCompany(models.PermManageRoles, h.Role.Create))
	mux.Handle("PATCH /api/companies/{companyId}/roles/{roleId}", authCompany(models.PermManageRoles, h.Role.Update))
	mux.Handle("DELETE /api/companies/{companyId}/roles/{roleId}", authCompany(models.PermManageRoles, h.Role.Delete))

	// Projects
	mux.Handle("GET /api/companies/{companyId}/projects", authCompany(models.PermViewCompany, h.Project.ListProjects))
	mux.Handle("POST /api/companies/{companyId}/projects", authCompany(models.PermManageProjects, h.Project.CreateProject))
	mux.Handle("GET /api/companies/{companyId}/projects/{projectId}", authCompany(models.PermViewCompany, h.Project.GetProject))
	mux.Handle("PATCH /api/companies/{companyId}/projects/{projectId}", authCompany(models.PermManageProjects, h.Project.UpdateProject))
	mux.Handle("DELETE /api/companies/{companyId}/projects/{projectId}", authCompany(models.PermManageProjects, h.Project.DeleteProject))

	// Tasks
	mux.Handle("GET /api/companies/{companyId}/tasks", authCompany(models.PermViewCompany, h.Project.ListCompanyTasks))
	mux.Handle("GET /api/companies/{companyId}/projects/{projectId}/tasks", authCompany(models.PermViewCompany, h.Project.ListTasks))
	mux.Handle("POST /api/companies/{companyId}/projects/{projectId}/tasks", authCompany(models.PermManageTasks, h.Project.CreateTask))
	mux.Handle("GET /api/companies/{companyId}/projects/{projectId}/tasks/{taskId}", authCompany(models.PermViewCompany, h.Project.GetTask))
	mux.Handle("PATCH /api/companies/{companyId}/projects/{projectId}/tasks/{taskId}", authCompany(models.PermManageTasks, h.Project.UpdateTask))
	mux.Handle("DELETE /api/companies/{companyId}/projects/{projectId}/tasks/{taskId}", authCompany(models.PermManageTasks, h.Project.DeleteTask))

	// Appointments
	mux.Handle("GET /api/companies/{companyId}/appointments", authCompany(models.PermViewCompany, h.Appointment.ListForCompany))
	mux.Handle("POST /api/companies/{companyId}/appointments", authCompany(models.PermRequestAppointments, h.Appointment.Create))
	mux.Handle("POST /api/companies/{companyId}/appointments/{id}/cancel", authCompany(models.PermRequestAppointments, h.Appointment.Cancel))

	// Reports: review yetkisi service'te danışman ataması üzerinden kontrol edilir
	mux.Handle("GET /api/companies/{companyId}/reports", authCompany(models.PermViewReports, h.Report.List))
	mux.Handle("POST /api/companies/{companyId}/reports", authCompany(models.PermManageReports, h.Report.Create))
	mux.Handle("GET /api/companies/{companyId}/reports/{id}", authCompany(models.PermViewReports, h.Report.Get))
	mux.Handle("PATCH /api/companies/{companyId}/reports/{id}", authCompany(models.PermManageReports, h.Report.Update))
	mux.Handle("DELETE /api/companies/{companyId}/reports/{id}", authCompany(models.PermManageReports, h.Report.Delete))
	mux.Handle("POST /api/companies/{companyId}/reports/{id}/submit", authCompany(models.PermManageReports, h.Report.Submit))
	mux.Handle("POST /api/companies/{companyId}/reports/{id}/review", authCompany(models.PermViewReports, h.Report.Review))
	mux.Handle("GET /api/companies/{companyId}/reports/{id}/export.xlsx", authCompany(models.PermViewReports, h.Report.Export))

	// ╔══════════════════════════════════════════╗
	// ║  TRAININGS & FORUM                        ║
	// ╚══════════════════════════════════════════╝

	mux.Handle("GET /api/trainings", auth(h.Training.List))
	mux.Handle("GET /api/trainings/{setId}", auth(h.Training.Get))
	mux.Handle("POST /api/trainings/videos/{videoId}/complete", auth(h.Training.CompleteVideo))
	mux.Handle("DELETE /api/trainings/videos/{videoId}/complete", auth(h.Training.UncompleteVideo))

	mux.Handle("GET /api/forum/categories", auth(h.Forum.ListCategories))
	mux.Handle("GET /api/forum/topics", auth(h.Forum.ListTopics))
	mux.Handle("POST /api/forum/topics", auth(h.Forum.CreateTopic))
	mux.Handle("GET /api/forum/topics/{id}", auth(h.Forum.GetTopic))
	mux.Handle("PATCH /api/forum/topics/{id}", auth(h.Forum.UpdateTopic))
	mux.Handle("DELETE /api/forum/topics/{id}", auth(h.Forum.DeleteTopic))
	mux.Handle("POST /api/forum/topics/{id}/replies", auth(h.Forum.CreateReply))
	mux.Handle("DELETE /api/forum/replies/{id}", auth(h.Forum.DeleteReply))

	// ╔══════════════════════════════════════════╗
	// ║  CONSULTANT                               ║
	// ╚══════════════════════════════════════════╝

	mux.Handle("GET /api/consultant/companies", authConsultant(h.Consultant.MyCompanies))
	mux.Handle("GET /api/consultant/appointments", authConsultant(h.Appointment.ListForConsultant))
	mux.Handle("POST /api/appointments/{id}/respond", authConsultant(h.Appointment.Respond))

	// ╔══════════════════════════════════════════╗
	// ║  PLATFORM ADMIN                           ║
	// ╚══════════════════════════════════════════╝

	mux.Handle("GET /api/admin/stats", authAdmin(h.Dashboard.AdminStats))
	mux.Handle("GET /api/admin/audit-logs", authAdmin(h.Admin.ListAuditLogs))

	// Companies
	mux.Handle("GET /api/admin/companies", authAdmin(h.Company.AdminList))
	mux.Handle("POST /api/admin/companies", authAdmin(h.Company.AdminCreate))
	mux.Handle("GET /api/admin/companies/{id}", authAdmin(h.Company.AdminGet))
	mux.Handle("PATCH /api/admin/companies/{id}", authAdmin(h.Company.AdminUpdate))
	mux.Handle("DELETE /api/admin/companies/{id}", authAdmin(h.Company.AdminDelete))

	// Consultants
	mux.Handle("GET /api/admin/consultants", authAdmin(h.Consultant.List))
	mux.Handle("POST /api/admin/companies/{id}/consultants", authAdmin(h.Consultant.Assign))
	mux.Handle("DELETE /api/admin/companies/{id}/consultants/{userId}", authAdmin(h.Consultant.Unassign))

	// Users (kısayol; /api/users ile aynı handler'lar)
	mux.Handle("GET /api/admin/users", authAdmin(h.User.List))

	// Trainings
	mux.Handle("GET /api/admin/trainings", authAdmin(h.Training.AdminList))
	mux.Handle("POST /api/admin/trainings", authAdmin(h.Training.CreateSet))
	mux.Handle("GET /api/admin/trainings/{setId}", authAdmin(h.Training.AdminGet))
	mux.Handle("PATCH /api/admin/trainings/{setId}", authAdmin(h.Training.UpdateSet))
	mux.Handle("DELETE /api/admin/trainings/{setId}", authAdmin(h.Training.DeleteSet))
	mux.Handle("POST /api/admin/trainings/{setId}/videos", authAdmin(h.Training.CreateVideo))
	mux.Handle("PATCH /api/admin/trainings/{setId}/videos/{videoId}", authAdmin(h.Training.UpdateVideo))
	mux.Handle("DELETE /api/admin/trainings/{setId}/videos/{videoId}", authAdmin(h.Training.DeleteVideo))

	// News
	mux.Handle("GET /api/admin/news", authAdmin(h.News.AdminList))
	mux.Handle("POST /api/admin/news", authAdmin(h.News.Create))
	mux.Handle("GET /api/admin/news/{id}", authAdmin(h.News.AdminGet))
	mux.Handle("PATCH /api/admin/news/{id}", authAdmin(h.News.Update))
	mux.Handle("DELETE /api/admin/news/{id}", authAdmin(h.News.Delete))

	// Forum moderation
	mux.Handle("PATCH /api/admin/forum/topics/{id}", authAdmin(h.Forum.Moderate))

	// Contact inbox
	mux.Handle("GET /api/admin/contact", authAdmin(h.Contact.List))
	mux.Handle("PATCH /api/admin/contact/{id}", authAdmin(h.Contact.SetHandled))

	// Pricing
	mux.Handle("GET /api/admin/pricing", authAdmin(h.Pricing.AdminList))
	mux.Handle("POST /api/admin/pricing", authAdmin(h.Pricing.Create))
	mux.Handle("PATCH /api/admin/pricing/{id}", authAdmin(h.Pricing.Update))
	mux.Handle("DELETE /api/admin/pricing/{id}", authAdmin(h.Pricing.Delete))

	// WebSocket: tarayıcılar upgrade isteğinde header gönderemediği için token query'dedir
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// Panel frontend'i; bilinmeyen path'ler index.html'e düşer
	mux.Handle("GET /", static.Handler())
}
