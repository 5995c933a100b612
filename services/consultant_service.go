package services

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// ConsultantService, danışman ↔ firma atamaları.
type ConsultantService interface {
	ListConsultants(ctx context.Context) ([]models.ConsultantEntry, error)
	Assign(ctx context.Context, actorID, companyID, consultantID string) error
	Unassign(ctx context.Context, actorID, companyID, consultantID string) error
	// MyCompanies, danışmanın atandığı firmalar.
	MyCompanies(ctx context.Context, consultantID string) ([]models.CompanySummary, error)
}

type consultantService struct {
	consultants repository.ConsultantRepository
	companies   repository.CompanyRepository
	users       repository.UserRepository
	permissions PermissionService
	audit       AuditService
}

// NewConsultantService, constructor.
func NewConsultantService(
	consultants repository.ConsultantRepository,
	companies repository.CompanyRepository,
	users repository.UserRepository,
	permissions PermissionService,
	audit AuditService,
) ConsultantService {
	return &consultantService{
		consultants: consultants,
		companies:   companies,
		users:       users,
		permissions: permissions,
		audit:       audit,
	}
}

func (s *consultantService) ListConsultants(ctx context.Context) ([]models.ConsultantEntry, error) {
	return s.consultants.ListAll(ctx)
}

func (s *consultantService) Assign(ctx context.Context, actorID, companyID, consultantID string) error {
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, consultantID)
	if err != nil {
		return err
	}
	if !user.IsConsultant() {
		return fmt.Errorf("%w: user is not a consultant", pkg.ErrBadRequest)
	}
	if !user.IsActive {
		return fmt.Errorf("%w: consultant account is deactivated", pkg.ErrBadRequest)
	}

	if err := s.consultants.Assign(ctx, companyID, consultantID); err != nil {
		return err
	}
	s.permissions.InvalidateMember(companyID, consultantID)
	s.audit.Record(ctx, actorID, models.AuditAssign, "company", companyID, map[string]string{"consultant_id": consultantID})
	return nil
}

func (s *consultantService) Unassign(ctx context.Context, actorID, companyID, consultantID string) error {
	if err := s.consultants.Unassign(ctx, companyID, consultantID); err != nil {
		return err
	}
	s.permissions.InvalidateMember(companyID, consultantID)
	s.audit.Record(ctx, actorID, models.AuditDelete, "consultant_assignment", companyID, map[string]string{"consultant_id": consultantID})
	return nil
}

func (s *consultantService) MyCompanies(ctx context.Context, consultantID string) ([]models.CompanySummary, error) {
	return s.consultants.ListCompanies(ctx, consultantID)
}
