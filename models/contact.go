package models

import (
	"strings"
	"time"
)

// ContactMessage, public iletişim formundan gelen mesaj.
type ContactMessage struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Company   string     `json:"company"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	IPAddress string     `json:"ip_address"`
	IsHandled bool       `json:"is_handled"`
	HandledBy *string    `json:"handled_by"`
	HandledAt *time.Time `json:"handled_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// ContactRequest, iletişim formu body'si.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate, ContactRequest'i doğrular.
func (r *ContactRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Company = strings.TrimSpace(r.Company)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)

	if err := validateLength("name", r.Name, 2, 100); err != nil {
		return err
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validateLength("company", r.Company, 0, 200); err != nil {
		return err
	}
	if err := validateLength("phone", r.Phone, 0, 30); err != nil {
		return err
	}
	if err := validateLength("subject", r.Subject, 0, 200); err != nil {
		return err
	}
	return validateLength("message", r.Message, 10, 5000)
}

// UpdateContactRequest, admin'in mesajı işlendi olarak işaretlemesi.
type UpdateContactRequest struct {
	IsHandled bool `json:"is_handled"`
}
