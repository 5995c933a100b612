// Package models, uygulamanın domain modellerini tanımlar.
//
// Model hem veritabanındaki tablonun Go karşılığıdır hem de API'den
// gelen/giden verinin şeklini belirler.
package models

import (
	"fmt"
	"strings"
	"time"
)

// PlatformRole, kullanıcının platform genelindeki rolü.
// Firma içi yetkiler ayrıca CompanyRole ile belirlenir.
type PlatformRole string

const (
	PlatformRoleAdmin       PlatformRole = "admin"
	PlatformRoleConsultant  PlatformRole = "consultant"
	PlatformRoleCompanyUser PlatformRole = "company_user"
)

// Valid, rolün tanımlı değerlerden biri olup olmadığını döner.
func (r PlatformRole) Valid() bool {
	switch r {
	case PlatformRoleAdmin, PlatformRoleConsultant, PlatformRoleCompanyUser:
		return true
	}
	return false
}

// User, bir kullanıcıyı temsil eder.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // API response'a dahil edilmez
	FullName     string       `json:"full_name"`
	Phone        string       `json:"phone"`
	PlatformRole PlatformRole `json:"platform_role"`
	IsActive     bool         `json:"is_active"`
	LastLoginAt  *time.Time   `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsAdmin, platform admin kontrolü.
func (u *User) IsAdmin() bool { return u.PlatformRole == PlatformRoleAdmin }

// IsConsultant, danışman kontrolü.
func (u *User) IsConsultant() bool { return u.PlatformRole == PlatformRoleConsultant }

// RegisterRequest, kayıt olurken frontend'den gelen veri.
// CompanyName doluysa kullanıcı adına yeni bir firma açılır ve kullanıcı owner olur.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

// Validate, RegisterRequest'i normalize eder ve doğrular.
func (r *RegisterRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.CompanyName = strings.TrimSpace(r.CompanyName)

	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}
	if err := validateLength("full name", r.FullName, 2, 100); err != nil {
		return err
	}
	if r.CompanyName != "" {
		if err := validateLength("company name", r.CompanyName, 2, 200); err != nil {
			return err
		}
	}
	return nil
}

// LoginRequest, giriş isteği.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, LoginRequest'i doğrular.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// UpdateProfileRequest, kullanıcının kendi profilini güncellemesi.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// Validate, sadece gönderilen alanları doğrular.
func (r *UpdateProfileRequest) Validate() error {
	trimPtr(r.FullName)
	trimPtr(r.Phone)
	if r.FullName != nil {
		if err := validateLength("full name", *r.FullName, 2, 100); err != nil {
			return err
		}
	}
	if r.Phone != nil {
		if err := validateLength("phone", *r.Phone, 0, 30); err != nil {
			return err
		}
	}
	return nil
}

// ChangePasswordRequest, oturum açıkken şifre değiştirme.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate, ChangePasswordRequest'i doğrular.
func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return fmt.Errorf("current password is required")
	}
	if err := validatePassword(r.NewPassword); err != nil {
		return err
	}
	if r.CurrentPassword == r.NewPassword {
		return fmt.Errorf("new password must differ from the current password")
	}
	return nil
}

// AdminCreateUserRequest, platform admin'in kullanıcı oluşturması.
type AdminCreateUserRequest struct {
	Email        string       `json:"email"`
	Password     string       `json:"password"`
	FullName     string       `json:"full_name"`
	Phone        string       `json:"phone"`
	PlatformRole PlatformRole `json:"platform_role"`
}

// Validate, AdminCreateUserRequest'i doğrular. Rol boşsa company_user kabul edilir.
func (r *AdminCreateUserRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	if r.PlatformRole == "" {
		r.PlatformRole = PlatformRoleCompanyUser
	}

	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}
	if err := validateLength("full name", r.FullName, 2, 100); err != nil {
		return err
	}
	if !r.PlatformRole.Valid() {
		return fmt.Errorf("invalid platform role")
	}
	return nil
}

// AdminUpdateUserRequest, platform admin'in kullanıcıyı güncellemesi.
type AdminUpdateUserRequest struct {
	FullName     *string       `json:"full_name"`
	Phone        *string       `json:"phone"`
	PlatformRole *PlatformRole `json:"platform_role"`
	IsActive     *bool         `json:"is_active"`
}

// Validate, sadece gönderilen alanları doğrular.
func (r *AdminUpdateUserRequest) Validate() error {
	trimPtr(r.FullName)
	trimPtr(r.Phone)
	if r.FullName != nil {
		if err := validateLength("full name", *r.FullName, 2, 100); err != nil {
			return err
		}
	}
	if r.PlatformRole != nil && !r.PlatformRole.Valid() {
		return fmt.Errorf("invalid platform role")
	}
	return nil
}

// UserFilter, kullanıcı listeleme filtreleri.
type UserFilter struct {
	Query  string
	Role   PlatformRole
	Limit  int
	Offset int
}
