package models

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus, randevu talebinin durumu.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentApproved  AppointmentStatus = "approved"
	AppointmentRejected  AppointmentStatus = "rejected"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// appointmentTransitions, izin verilen durum geçişleri.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:  {AppointmentApproved, AppointmentRejected, AppointmentCancelled},
	AppointmentApproved: {AppointmentCompleted, AppointmentCancelled},
}

// CanTransitionTo, mevcut durumdan hedef duruma geçişin geçerli olup olmadığını döner.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid, durumun tanımlı değerlerden biri olup olmadığını döner.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentApproved, AppointmentRejected, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// AppointmentRequest, firmanın danışmanlık randevu talebi (randevu_talepleri).
type AppointmentRequest struct {
	ID            string            `json:"id"`
	CompanyID     string            `json:"company_id"`
	CompanyName   string            `json:"company_name"`
	RequestedBy   string            `json:"requested_by"`
	ConsultantID  *string           `json:"consultant_id"`
	Subject       string            `json:"subject"`
	Message       string            `json:"message"`
	PreferredDate time.Time         `json:"preferred_date"`
	Status        AppointmentStatus `json:"status"`
	ScheduledAt   *time.Time        `json:"scheduled_at"`
	ResponseNote  string            `json:"response_note"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// AppointmentFilter, randevu listesi filtreleri.
type AppointmentFilter struct {
	CompanyID    string
	ConsultantID string
	Status       AppointmentStatus
	From         *time.Time // preferred_date / scheduled_at alt sınırı
}

// CreateAppointmentRequest, randevu talebi oluşturma.
type CreateAppointmentRequest struct {
	Subject       string    `json:"subject"`
	Message       string    `json:"message"`
	PreferredDate time.Time `json:"preferred_date"`
}

// Validate, talebi doğrular. Tercih edilen tarih gelecekte olmalıdır.
func (r *CreateAppointmentRequest) Validate(now time.Time) error {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	if err := validateLength("subject", r.Subject, 3, 200); err != nil {
		return err
	}
	if err := validateLength("message", r.Message, 0, 5000); err != nil {
		return err
	}
	if r.PreferredDate.IsZero() {
		return fmt.Errorf("preferred_date is required")
	}
	if !r.PreferredDate.After(now) {
		return fmt.Errorf("preferred_date must be in the future")
	}
	return nil
}

// RespondAppointmentRequest, danışman/admin yanıtı.
type RespondAppointmentRequest struct {
	Status      AppointmentStatus `json:"status"`
	ScheduledAt *time.Time        `json:"scheduled_at"`
	Note        string            `json:"note"`
}

// Validate, yanıtı doğrular. Onay için scheduled_at zorunludur.
func (r *RespondAppointmentRequest) Validate() error {
	r.Note = strings.TrimSpace(r.Note)
	switch r.Status {
	case AppointmentApproved:
		if r.ScheduledAt == nil || r.ScheduledAt.IsZero() {
			return fmt.Errorf("scheduled_at is required when approving")
		}
	case AppointmentRejected, AppointmentCompleted:
	default:
		return fmt.Errorf("status must be approved, rejected or completed")
	}
	return validateLength("note", r.Note, 0, 2000)
}
