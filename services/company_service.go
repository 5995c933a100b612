package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/crypto"
	"github.com/akinalp/eihracat/pkg/email"
	"github.com/akinalp/eihracat/repository"
)

// inviteTokenTTL, yeni açılan personel hesabının şifre belirleme süresi.
const inviteTokenTTL = 72 * time.Hour

// CompanyService, firma (tenant) ve personel yönetimi.
type CompanyService interface {
	AdminCreate(ctx context.Context, actorID string, req *models.CreateCompanyRequest) (*models.Company, error)
	AdminList(ctx context.Context, filter models.CompanyFilter) ([]models.Company, int, error)
	AdminUpdate(ctx context.Context, actorID, companyID string, req *models.UpdateCompanyRequest) (*models.Company, error)
	AdminDelete(ctx context.Context, actorID, companyID string) error

	Get(ctx context.Context, companyID string) (*models.Company, error)
	ListMine(ctx context.Context, userID string) ([]models.MembershipAccess, error)
	// Update, üyelerin firma profilini düzenlemesi. Durum sadece admin tarafından değişir.
	Update(ctx context.Context, companyID string, req *models.UpdateCompanyRequest) (*models.Company, error)

	ListPersonnel(ctx context.Context, companyID string) ([]models.PersonnelEntry, error)
	// AddPersonnel, e-postası kayıtlı kullanıcıyı ekler; yoksa hesap açıp davet e-postası gönderir.
	// Personel işlemlerinde actor yalnızca kendi rolünün altındaki rolleri
	// atayabilir ve yalnızca kendisinden alt roldeki personeli yönetebilir.
	AddPersonnel(ctx context.Context, actor *models.User, companyID string, req *models.AddPersonnelRequest, lang string) (*models.CompanyMember, error)
	UpdatePersonnel(ctx context.Context, actor *models.User, companyID, userID string, req *models.UpdatePersonnelRequest) (*models.CompanyMember, error)
	RemovePersonnel(ctx context.Context, actor *models.User, companyID, userID string) error
}

type companyService struct {
	db          *database.DB
	companies   repository.CompanyRepository
	roles       repository.RoleRepository
	members     repository.MemberRepository
	users       repository.UserRepository
	resets      repository.PasswordResetRepository
	permissions PermissionService
	audit       AuditService
	cipher      *crypto.FieldCipher
	mailer      email.Sender
	publisher   events.Publisher
	log         *zap.Logger
}

// NewCompanyService, constructor.
func NewCompanyService(
	db *database.DB,
	companies repository.CompanyRepository,
	roles repository.RoleRepository,
	members repository.MemberRepository,
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	permissions PermissionService,
	audit AuditService,
	cipher *crypto.FieldCipher,
	mailer email.Sender,
	publisher events.Publisher,
	log *zap.Logger,
) CompanyService {
	return &companyService{
		db:          db,
		companies:   companies,
		roles:       roles,
		members:     members,
		users:       users,
		resets:      resets,
		permissions: permissions,
		audit:       audit,
		cipher:      cipher,
		mailer:      mailer,
		publisher:   publisher,
		log:         log,
	}
}

// createCompanyTx, firmayı üç varsayılan rol ve (ownerID doluysa) owner üyeliğiyle oluşturur.
// Vergi numarası düz metin gelir, burada şifrelenir. tx içinde çağrılmalıdır.
func createCompanyTx(ctx context.Context, tx database.TxQuerier, cipher *crypto.FieldCipher, company *models.Company, ownerID string) error {
	plainTax := company.TaxNumber
	encrypted, err := cipher.Encrypt(plainTax)
	if err != nil {
		return fmt.Errorf("failed to encrypt tax number: %w", err)
	}
	company.TaxNumber = encrypted
	if ownerID != "" {
		company.OwnerID = &ownerID
	}

	if err := repository.NewSQLCompanyRepo(tx).Create(ctx, company); err != nil {
		return err
	}
	company.TaxNumber = plainTax

	roles := repository.NewSQLRoleRepo(tx)
	var ownerRoleID string
	for _, role := range models.DefaultRoles(company.ID) {
		if err := roles.Create(ctx, &role); err != nil {
			return err
		}
		if role.IsOwner() {
			ownerRoleID = role.ID
		}
	}

	if ownerID == "" {
		return nil
	}
	return repository.NewSQLMemberRepo(tx).Add(ctx, &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    ownerID,
		RoleID:    ownerRoleID,
	})
}

func (s *companyService) AdminCreate(ctx context.Context, actorID string, req *models.CreateCompanyRequest) (*models.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	var ownerID string
	if req.OwnerEmail != "" {
		owner, err := s.users.GetByEmail(ctx, req.OwnerEmail)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return nil, fmt.Errorf("%w: owner %s is not registered", pkg.ErrBadRequest, req.OwnerEmail)
			}
			return nil, err
		}
		ownerID = owner.ID
	}

	company := &models.Company{
		Name:          req.Name,
		TaxNumber:     req.TaxNumber,
		Sector:        strings.TrimSpace(req.Sector),
		City:          strings.TrimSpace(req.City),
		Country:       req.Country,
		Website:       strings.TrimSpace(req.Website),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         req.Email,
		ExportMarkets: req.ExportMarkets,
		Status:        req.Status,
	}
	err := database.WithTx(ctx, s.db, func(tx database.TxQuerier) error {
		return createCompanyTx(ctx, tx, s.cipher, company, ownerID)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, models.AuditCreate, "company", company.ID, map[string]string{"name": company.Name})
	if err := s.publisher.Publish(ctx, events.New(events.CompanyCreated, company.ID, actorID, map[string]string{"name": company.Name})); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", events.CompanyCreated), zap.Error(err))
	}
	return company, nil
}

func (s *companyService) AdminList(ctx context.Context, filter models.CompanyFilter) ([]models.Company, int, error) {
	if filter.Limit <= 0 || filter.Limit > pkg.MaxPageLimit {
		filter.Limit = pkg.DefaultPageLimit
	}
	companies, total, err := s.companies.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range companies {
		if err := s.decrypt(&companies[i]); err != nil {
			return nil, 0, err
		}
	}
	return companies, total, nil
}

func (s *companyService) AdminUpdate(ctx context.Context, actorID, companyID string, req *models.UpdateCompanyRequest) (*models.Company, error) {
	company, err := s.update(ctx, companyID, req, true)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditUpdate, "company", companyID, req)
	return company, nil
}

func (s *companyService) AdminDelete(ctx context.Context, actorID, companyID string) error {
	if err := s.companies.Delete(ctx, companyID); err != nil {
		return err
	}
	s.permissions.Invalidate(companyID)
	s.audit.Record(ctx, actorID, models.AuditDelete, "company", companyID, nil)
	return nil
}

func (s *companyService) Get(ctx context.Context, companyID string) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.decrypt(company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) ListMine(ctx context.Context, userID string) ([]models.MembershipAccess, error) {
	return s.members.ListMemberships(ctx, userID)
}

func (s *companyService) Update(ctx context.Context, companyID string, req *models.UpdateCompanyRequest) (*models.Company, error) {
	if req.Status != nil {
		return nil, fmt.Errorf("%w: company status can only be changed by an admin", pkg.ErrForbidden)
	}
	return s.update(ctx, companyID, req, false)
}

func (s *companyService) update(ctx context.Context, companyID string, req *models.UpdateCompanyRequest, admin bool) (*models.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	company, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&company.Name, req.Name)
	assign(&company.TaxNumber, req.TaxNumber)
	assign(&company.Sector, req.Sector)
	assign(&company.City, req.City)
	assign(&company.Website, req.Website)
	assign(&company.Phone, req.Phone)
	assign(&company.Email, req.Email)
	if req.Country != nil && *req.Country != "" {
		company.Country = strings.ToUpper(*req.Country)
	}
	if req.ExportMarkets != nil {
		company.ExportMarkets = req.ExportMarkets
	}
	if admin && req.Status != nil {
		company.Status = *req.Status
	}

	plainTax := company.TaxNumber
	if company.TaxNumber, err = s.cipher.Encrypt(plainTax); err != nil {
		return nil, fmt.Errorf("failed to encrypt tax number: %w", err)
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	company.TaxNumber = plainTax
	return company, nil
}

func (s *companyService) decrypt(company *models.Company) error {
	plain, err := s.cipher.Decrypt(company.TaxNumber)
	if err != nil {
		return fmt.Errorf("failed to decrypt tax number of company %s: %w", company.ID, err)
	}
	company.TaxNumber = plain
	return nil
}

func (s *companyService) ListPersonnel(ctx context.Context, companyID string) ([]models.PersonnelEntry, error) {
	return s.members.ListPersonnel(ctx, companyID)
}

func (s *companyService) AddPersonnel(ctx context.Context, actor *models.User, companyID string, req *models.AddPersonnelRequest, lang string) (*models.CompanyMember, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	auth, err := resolveAuthority(ctx, s.permissions, s.members, s.roles, actor, companyID)
	if err != nil {
		return nil, err
	}
	role, err := s.resolveRole(ctx, companyID, req.RoleID)
	if err != nil {
		return nil, err
	}
	if err := auth.checkRole(role); err != nil {
		return nil, err
	}

	member := &models.CompanyMember{CompanyID: companyID, RoleID: role.ID, Title: req.Title}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		member.UserID = existing.ID
		if err := s.members.Add(ctx, member); err != nil {
			return nil, err
		}
	case errors.Is(err, pkg.ErrNotFound):
		if err := s.invite(ctx, req, member, lang); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.permissions.InvalidateMember(companyID, member.UserID)
	return member, nil
}

// invite, yeni kullanıcı hesabını rastgele şifreyle açar, firmaya ekler ve
// şifre belirleme bağlantılı hoş geldin e-postası gönderir.
func (s *companyService) invite(ctx context.Context, req *models.AddPersonnelRequest, member *models.CompanyMember, lang string) error {
	randomPassword, err := randomToken(24)
	if err != nil {
		return err
	}
	hash, err := hashPassword(randomPassword)
	if err != nil {
		return err
	}

	name := req.FullName
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}
	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     name,
		Phone:        req.Phone,
		PlatformRole: models.PlatformRoleCompanyUser,
		IsActive:     true,
	}

	var token string
	err = database.WithTx(ctx, s.db, func(tx database.TxQuerier) error {
		if err := repository.NewSQLUserRepo(tx).Create(ctx, user); err != nil {
			return err
		}
		member.UserID = user.ID
		if err := repository.NewSQLMemberRepo(tx).Add(ctx, member); err != nil {
			return err
		}
		token, err = issueResetToken(ctx, repository.NewSQLResetTokenRepo(tx), user.ID, inviteTokenTTL, time.Now().UTC())
		return err
	})
	if err != nil {
		return err
	}

	if err := s.mailer.SendWelcome(ctx, lang, user.Email, user.FullName, token); err != nil {
		s.log.Warn("failed to send welcome email", zap.String("user_id", user.ID), zap.Error(err))
	}
	if err := s.publisher.Publish(ctx, events.New(events.UserRegistered, user.ID, "", map[string]string{"email": user.Email, "company_id": member.CompanyID})); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", events.UserRegistered), zap.Error(err))
	}
	return nil
}

// checkPersonnelRank, actor'ün hedef personelin mevcut rolünden üstte olduğunu doğrular.
func (s *companyService) checkPersonnelRank(ctx context.Context, actor *models.User, member *models.CompanyMember) (authority, error) {
	auth, err := resolveAuthority(ctx, s.permissions, s.members, s.roles, actor, member.CompanyID)
	if err != nil {
		return authority{}, err
	}
	current, err := s.roles.GetByID(ctx, member.CompanyID, member.RoleID)
	if err != nil {
		return authority{}, err
	}
	if err := auth.checkRank(current.Position); err != nil {
		return authority{}, err
	}
	return auth, nil
}

// resolveRole, boş roleID için varsayılan rolü döner. Owner rolü personel işlemleriyle atanamaz.
func (s *companyService) resolveRole(ctx context.Context, companyID, roleID string) (*models.CompanyRole, error) {
	if roleID == "" {
		return s.roles.GetDefault(ctx, companyID)
	}
	role, err := s.roles.GetByID(ctx, companyID, roleID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: role not found in this company", pkg.ErrBadRequest)
		}
		return nil, err
	}
	if role.IsOwner() {
		return nil, fmt.Errorf("%w: owner role cannot be assigned", pkg.ErrForbidden)
	}
	return role, nil
}

func (s *companyService) UpdatePersonnel(ctx context.Context, actor *models.User, companyID, userID string, req *models.UpdatePersonnelRequest) (*models.CompanyMember, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	member, err := s.members.Get(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	auth, err := s.checkPersonnelRank(ctx, actor, member)
	if err != nil {
		return nil, err
	}

	if req.RoleID != nil {
		company, err := s.companies.GetByID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if company.OwnerID != nil && *company.OwnerID == userID {
			return nil, fmt.Errorf("%w: the owner's role cannot be changed", pkg.ErrForbidden)
		}
		role, err := s.resolveRole(ctx, companyID, *req.RoleID)
		if err != nil {
			return nil, err
		}
		if err := auth.checkRole(role); err != nil {
			return nil, err
		}
		member.RoleID = role.ID
	}
	if req.Title != nil {
		member.Title = *req.Title
	}

	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	s.permissions.InvalidateMember(companyID, userID)
	return member, nil
}

func (s *companyService) RemovePersonnel(ctx context.Context, actor *models.User, companyID, userID string) error {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company.OwnerID != nil && *company.OwnerID == userID {
		return fmt.Errorf("%w: the company owner cannot be removed", pkg.ErrConflict)
	}

	member, err := s.members.Get(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if _, err := s.checkPersonnelRank(ctx, actor, member); err != nil {
		return err
	}

	if err := s.members.Remove(ctx, companyID, userID); err != nil {
		return err
	}
	s.permissions.InvalidateMember(companyID, userID)
	return nil
}
