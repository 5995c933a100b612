package models

import (
	"fmt"
	"strings"
	"time"
)

// CompanyMember, bir kullanıcının firmadaki personel kaydı.
type CompanyMember struct {
	CompanyID string    `json:"company_id"`
	UserID    string    `json:"user_id"`
	RoleID    string    `json:"role_id"`
	Title     string    `json:"title"`
	JoinedAt  time.Time `json:"joined_at"`
}

// PersonnelEntry, personel listesinde kullanıcı ve rol bilgisiyle birleşik satır.
type PersonnelEntry struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone"`
	IsActive  bool       `json:"is_active"`
	Title     string     `json:"title"`
	RoleID    string     `json:"role_id"`
	RoleName  string     `json:"role_name"`
	IsOwner   bool       `json:"is_owner"`
	JoinedAt  time.Time  `json:"joined_at"`
	LastLogin *time.Time `json:"last_login_at"`
}

// MembershipAccess, kullanıcının bir firmadaki erişim özeti.
// /api/auth/session ve /api/companies yanıtlarında döner.
type MembershipAccess struct {
	Company     CompanySummary `json:"company"`
	RoleID      string         `json:"role_id"`
	RoleName    string         `json:"role_name"`
	Title       string         `json:"title"`
	Permissions Permission     `json:"permissions"`
}

// AddPersonnelRequest, firmaya personel ekleme isteği.
// Email'e sahip kullanıcı yoksa yeni hesap açılır ve şifre belirleme e-postası gönderilir.
type AddPersonnelRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Title    string `json:"title"`
	RoleID   string `json:"role_id"` // boşsa varsayılan rol
}

// Validate, AddPersonnelRequest'i doğrular.
func (r *AddPersonnelRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Title = strings.TrimSpace(r.Title)

	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.FullName != "" {
		if err := validateLength("full name", r.FullName, 2, 100); err != nil {
			return err
		}
	}
	return validateLength("title", r.Title, 0, 100)
}

// UpdatePersonnelRequest, personelin rol/ünvan güncellemesi.
type UpdatePersonnelRequest struct {
	RoleID *string `json:"role_id"`
	Title  *string `json:"title"`
}

// Validate, UpdatePersonnelRequest'i doğrular.
func (r *UpdatePersonnelRequest) Validate() error {
	trimPtr(r.RoleID)
	trimPtr(r.Title)
	if r.RoleID == nil && r.Title == nil {
		return fmt.Errorf("nothing to update")
	}
	if r.RoleID != nil && *r.RoleID == "" {
		return fmt.Errorf("role_id cannot be empty")
	}
	if r.Title != nil {
		return validateLength("title", *r.Title, 0, 100)
	}
	return nil
}

// AssignConsultantRequest, firmaya danışman atama.
type AssignConsultantRequest struct {
	UserID string `json:"user_id"`
}

// Validate, AssignConsultantRequest'i doğrular.
func (r *AssignConsultantRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	if r.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	return nil
}

// ConsultantEntry, danışman listesi satırı.
type ConsultantEntry struct {
	UserID    string           `json:"user_id"`
	Email     string           `json:"email"`
	FullName  string           `json:"full_name"`
	IsActive  bool             `json:"is_active"`
	Companies []CompanySummary `json:"companies"`
}
