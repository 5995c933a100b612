package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReportStatus, dönem raporunun durumu.
type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportSubmitted ReportStatus = "submitted"
	ReportReviewed  ReportStatus = "reviewed"
)

// PeriodReport, firmanın belirli bir döneme ait ihracat raporu.
type PeriodReport struct {
	ID                 string          `json:"id"`
	CompanyID          string          `json:"company_id"`
	Title              string          `json:"title"`
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	ExportVolume       decimal.Decimal `json:"export_volume"`
	TargetVolume       decimal.Decimal `json:"target_volume"`
	Currency           string          `json:"currency"`
	Notes              string          `json:"notes"`
	Status             ReportStatus    `json:"status"`
	ConsultantFeedback string          `json:"consultant_feedback"`
	ReviewedBy         *string         `json:"reviewed_by"`
	SubmittedAt        *time.Time      `json:"submitted_at"`
	ReviewedAt         *time.Time      `json:"reviewed_at"`
	CreatedBy          string          `json:"created_by"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// AchievementPercent, ihracat hacminin hedefe oranı (iki ondalık).
// Hedef sıfırsa 0 döner.
func (r *PeriodReport) AchievementPercent() decimal.Decimal {
	if r.TargetVolume.IsZero() {
		return decimal.Zero
	}
	return r.ExportVolume.Div(r.TargetVolume).Mul(decimal.NewFromInt(100)).Round(2)
}

// ReportStats, rapor döneminde hesaplanan türetilmiş sayılar.
type ReportStats struct {
	ProjectsTotal         int             `json:"projects_total"`
	ProjectsActive        int             `json:"projects_active"`
	ProjectsCompleted     int             `json:"projects_completed"`
	TasksTotal            int             `json:"tasks_total"`
	TasksDone             int             `json:"tasks_done"`
	TaskCompletionPercent int             `json:"task_completion_percent"`
	AppointmentsTotal     int             `json:"appointments_total"`
	AppointmentsCompleted int             `json:"appointments_completed"`
	TrainingProgress      int             `json:"training_progress_percent"`
	TargetAchievement     decimal.Decimal `json:"target_achievement_percent"`
}

// PeriodReportWithStats, istatistikleriyle rapor.
type PeriodReportWithStats struct {
	PeriodReport
	Stats ReportStats `json:"stats"`
}

// CreateReportRequest, rapor oluşturma isteği.
type CreateReportRequest struct {
	Title        string          `json:"title"`
	PeriodStart  time.Time       `json:"period_start"`
	PeriodEnd    time.Time       `json:"period_end"`
	ExportVolume decimal.Decimal `json:"export_volume"`
	TargetVolume decimal.Decimal `json:"target_volume"`
	Currency     string          `json:"currency"`
	Notes        string          `json:"notes"`
}

// Validate, CreateReportRequest'i doğrular.
func (r *CreateReportRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Notes = strings.TrimSpace(r.Notes)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = "USD"
	}

	if err := validateLength("title", r.Title, 3, 200); err != nil {
		return err
	}
	if r.PeriodStart.IsZero() || r.PeriodEnd.IsZero() {
		return fmt.Errorf("period_start and period_end are required")
	}
	if !r.PeriodEnd.After(r.PeriodStart) {
		return fmt.Errorf("period_end must be after period_start")
	}
	if r.ExportVolume.IsNegative() || r.TargetVolume.IsNegative() {
		return fmt.Errorf("volumes cannot be negative")
	}
	if len(r.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code")
	}
	return validateLength("notes", r.Notes, 0, 10000)
}

// UpdateReportRequest, taslak rapor güncellemesi.
type UpdateReportRequest struct {
	Title        *string          `json:"title"`
	PeriodStart  *time.Time       `json:"period_start"`
	PeriodEnd    *time.Time       `json:"period_end"`
	ExportVolume *decimal.Decimal `json:"export_volume"`
	TargetVolume *decimal.Decimal `json:"target_volume"`
	Notes        *string          `json:"notes"`
}

// Validate, sadece gönderilen alanları doğrular.
func (r *UpdateReportRequest) Validate() error {
	trimPtr(r.Title)
	trimPtr(r.Notes)
	if r.Title != nil {
		if err := validateLength("title", *r.Title, 3, 200); err != nil {
			return err
		}
	}
	if (r.ExportVolume != nil && r.ExportVolume.IsNegative()) ||
		(r.TargetVolume != nil && r.TargetVolume.IsNegative()) {
		return fmt.Errorf("volumes cannot be negative")
	}
	if r.Notes != nil {
		return validateLength("notes", *r.Notes, 0, 10000)
	}
	return nil
}

// ReviewReportRequest, danışman değerlendirmesi.
type ReviewReportRequest struct {
	Feedback string `json:"feedback"`
}

// Validate, ReviewReportRequest'i doğrular.
func (r *ReviewReportRequest) Validate() error {
	r.Feedback = strings.TrimSpace(r.Feedback)
	return validateLength("feedback", r.Feedback, 1, 10000)
}
