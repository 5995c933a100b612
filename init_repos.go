// Package main: Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *database.DB'yi alır; transaction içinde çalışması
// gereken yerlerde service'ler aynı constructor'ları Tx ile çağırır.
package main

import (
	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User        repository.UserRepository
	Session     repository.SessionRepository
	ResetToken  repository.PasswordResetRepository
	Company     repository.CompanyRepository
	Role        repository.RoleRepository
	Member      repository.MemberRepository
	Consultant  repository.ConsultantRepository
	Project     repository.ProjectRepository
	Task        repository.TaskRepository
	Training    repository.TrainingRepository
	Forum       repository.ForumRepository
	News        repository.NewsRepository
	Appointment repository.AppointmentRepository
	Report      repository.ReportRepository
	Contact     repository.ContactRepository
	Pricing     repository.PricingRepository
	Audit       repository.AuditRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
// sql.DB thread-safe bir connection pool'dur, paylaşılması güvenlidir.
func initRepositories(db *database.DB) *Repositories {
	return &Repositories{
		User:        repository.NewSQLUserRepo(db),
		Session:     repository.NewSQLSessionRepo(db),
		ResetToken:  repository.NewSQLResetTokenRepo(db),
		Company:     repository.NewSQLCompanyRepo(db),
		Role:        repository.NewSQLRoleRepo(db),
		Member:      repository.NewSQLMemberRepo(db),
		Consultant:  repository.NewSQLConsultantRepo(db),
		Project:     repository.NewSQLProjectRepo(db),
		Task:        repository.NewSQLTaskRepo(db),
		Training:    repository.NewSQLTrainingRepo(db),
		Forum:       repository.NewSQLForumRepo(db),
		News:        repository.NewSQLNewsRepo(db),
		Appointment: repository.NewSQLAppointmentRepo(db),
		Report:      repository.NewSQLReportRepo(db),
		Contact:     repository.NewSQLContactRepo(db),
		Pricing:     repository.NewSQLPricingRepo(db),
		Audit:       repository.NewSQLAuditRepo(db),
	}
}
