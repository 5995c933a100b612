package models

import (
	"fmt"
	"strings"
	"time"
)

// Permission, firma içi rol yetkilerini bit flag olarak temsil eder.
//
//	Kontrol: (permissions & PermManageTasks) != 0
//	Ekleme:  permissions | PermManageTasks
//	Çıkarma: permissions &^ PermManageTasks
type Permission int64

const (
	PermViewCompany         Permission = 1 << iota // 1
	PermManageCompany                              // 2   firma profilini düzenleme
	PermManagePersonnel                            // 4   personel ekleme/çıkarma
	PermManageRoles                                // 8
	PermManageProjects                             // 16
	PermManageTasks                                // 32
	PermViewReports                                // 64
	PermManageReports                              // 128 dönem raporu oluşturma/gönderme
	PermRequestAppointments                        // 256
	PermAdmin                                      // 512 her şeyi kapsar
)

// PermAll, tüm yetkilerin toplamıdır.
const PermAll Permission = (1 << 10) - 1

// Varsayılan rol yetki setleri.
const (
	PermDefaultMember = PermViewCompany | PermViewReports | PermRequestAppointments

	PermDefaultManager = PermDefaultMember | PermManagePersonnel | PermManageProjects |
		PermManageTasks | PermManageReports

	// PermConsultant, atanmış danışmanın firmadaki efektif yetkisi.
	// Firma profilini, personeli ve rolleri yönetemez.
	PermConsultant = PermViewCompany | PermManageProjects | PermManageTasks | PermViewReports
)

// Has, belirli bir yetkinin var olup olmadığını kontrol eder.
// PermAdmin her şeye izin verir.
func (p Permission) Has(perm Permission) bool {
	if p&PermAdmin != 0 {
		return true
	}
	return p&perm == perm
}

// Varsayılan rol adları. Her firma oluşturulurken bu üç rol eklenir.
const (
	RoleNameOwner   = "owner"
	RoleNameManager = "manager"
	RoleNameMember  = "member"
)

// CompanyRole, bir firmaya ait rol.
type CompanyRole struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	Name        string     `json:"name"`
	Permissions Permission `json:"permissions"`
	Position    int        `json:"position"`
	IsDefault   bool       `json:"is_default"` // Yeni personele atanan rol
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOwner, owner rolü kontrolü. Owner rolü silinemez ve düzenlenemez.
func (r *CompanyRole) IsOwner() bool { return r.Name == RoleNameOwner }

// DefaultRoles, yeni firma için oluşturulacak rolleri döner.
func DefaultRoles(companyID string) []CompanyRole {
	return []CompanyRole{
		{CompanyID: companyID, Name: RoleNameOwner, Permissions: PermAll, Position: 100},
		{CompanyID: companyID, Name: RoleNameManager, Permissions: PermDefaultManager, Position: 50},
		{CompanyID: companyID, Name: RoleNameMember, Permissions: PermDefaultMember, Position: 1, IsDefault: true},
	}
}

// CreateRoleRequest, yeni rol oluşturma isteği.
type CreateRoleRequest struct {
	Name        string     `json:"name"`
	Permissions Permission `json:"permissions"`
	Position    int        `json:"position"`
}

// Validate, CreateRoleRequest'i doğrular.
func (r *CreateRoleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if err := validateLength("role name", r.Name, 1, 50); err != nil {
		return err
	}
	if strings.EqualFold(r.Name, RoleNameOwner) {
		return fmt.Errorf("role name %q is reserved", RoleNameOwner)
	}
	if r.Permissions&^PermAll != 0 {
		return fmt.Errorf("unknown permission bits")
	}
	if r.Position < 1 || r.Position >= 100 {
		return fmt.Errorf("position must be between 1 and 99")
	}
	return nil
}

// UpdateRoleRequest, rol güncelleme isteği.
type UpdateRoleRequest struct {
	Name        *string     `json:"name"`
	Permissions *Permission `json:"permissions"`
	Position    *int        `json:"position"`
}

// Validate, sadece gönderilen alanları doğrular.
func (r *UpdateRoleRequest) Validate() error {
	trimPtr(r.Name)
	if r.Name != nil {
		if err := validateLength("role name", *r.Name, 1, 50); err != nil {
			return err
		}
		if strings.EqualFold(*r.Name, RoleNameOwner) {
			return fmt.Errorf("role name %q is reserved", RoleNameOwner)
		}
	}
	if r.Permissions != nil && *r.Permissions&^PermAll != 0 {
		return fmt.Errorf("unknown permission bits")
	}
	if r.Position != nil && (*r.Position < 1 || *r.Position >= 100) {
		return fmt.Errorf("position must be between 1 and 99")
	}
	return nil
}
