package repository

import (
	"context"

	"github.com/akinalp/eihracat/models"
)

// CompanyRepository, firma (tenant) kayıtları.
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	List(ctx context.Context, filter models.CompanyFilter) ([]models.Company, int, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[models.CompanyStatus]int, error)
}

// RoleRepository, firma rolleri.
type RoleRepository interface {
	Create(ctx context.Context, role *models.CompanyRole) error
	GetByID(ctx context.Context, companyID, roleID string) (*models.CompanyRole, error)
	GetByName(ctx context.Context, companyID, name string) (*models.CompanyRole, error)
	GetDefault(ctx context.Context, companyID string) (*models.CompanyRole, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.CompanyRole, error)
	Update(ctx context.Context, role *models.CompanyRole) error
	Delete(ctx context.Context, companyID, roleID string) error
	CountMembers(ctx context.Context, roleID string) (int, error)
}

// MemberRepository, firma personeli (company_members).
type MemberRepository interface {
	Add(ctx context.Context, member *models.CompanyMember) error
	Get(ctx context.Context, companyID, userID string) (*models.CompanyMember, error)
	ListPersonnel(ctx context.Context, companyID string) ([]models.PersonnelEntry, error)
	// ListMemberships, kullanıcının üye olduğu firmaları rol yetkileriyle döner.
	ListMemberships(ctx context.Context, userID string) ([]models.MembershipAccess, error)
	// GetPermissions, üyenin rol yetkisini döner. Üye değilse ErrNotFound.
	GetPermissions(ctx context.Context, companyID, userID string) (models.Permission, error)
	ListUserIDs(ctx context.Context, companyID string) ([]string, error)
	Update(ctx context.Context, member *models.CompanyMember) error
	Remove(ctx context.Context, companyID, userID string) error
}

// ConsultantRepository, danışman-firma atamaları.
type ConsultantRepository interface {
	Assign(ctx context.Context, companyID, consultantID string) error
	Unassign(ctx context.Context, companyID, consultantID string) error
	IsAssigned(ctx context.Context, companyID, consultantID string) (bool, error)
	ListCompanies(ctx context.Context, consultantID string) ([]models.CompanySummary, error)
	ListConsultantIDs(ctx context.Context, companyID string) ([]string, error)
	ListAll(ctx context.Context) ([]models.ConsultantEntry, error)
}
