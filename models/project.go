package models

import (
	"fmt"
	"strings"
	"time"
)

// ProjectStatus, proje yaşam döngüsü.
type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// Valid, durumun tanımlı değerlerden biri olup olmadığını döner.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusActive, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// Project, firmanın ihracat projesi (projeler).
type Project struct {
	ID          string        `json:"id"`
	CompanyID   string        `json:"company_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	StartDate   *time.Time    `json:"start_date"`
	DueDate     *time.Time    `json:"due_date"`
	CreatedBy   string        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProjectWithProgress, görev sayıları ve ilerleme yüzdesiyle proje.
type ProjectWithProgress struct {
	Project
	TaskTotal       int `json:"task_total"`
	TaskDone        int `json:"task_done"`
	ProgressPercent int `json:"progress_percent"`
}

// CreateProjectRequest, proje oluşturma isteği.
type CreateProjectRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	StartDate   *time.Time    `json:"start_date"`
	DueDate     *time.Time    `json:"due_date"`
}

// Validate, CreateProjectRequest'i doğrular.
func (r *CreateProjectRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if r.Status == "" {
		r.Status = ProjectStatusPlanned
	}

	if err := validateLength("project name", r.Name, 1, 200); err != nil {
		return err
	}
	if err := validateLength("description", r.Description, 0, 5000); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid project status")
	}
	return validateDateRange(r.StartDate, r.DueDate)
}

// UpdateProjectRequest, proje güncelleme isteği.
type UpdateProjectRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *ProjectStatus `json:"status"`
	StartDate   *time.Time     `json:"start_date"`
	DueDate     *time.Time     `json:"due_date"`
}

// Validate, sadece gönderilen alanları doğrular.
func (r *UpdateProjectRequest) Validate() error {
	trimPtr(r.Name)
	trimPtr(r.Description)
	if r.Name != nil {
		if err := validateLength("project name", *r.Name, 1, 200); err != nil {
			return err
		}
	}
	if r.Description != nil {
		if err := validateLength("description", *r.Description, 0, 5000); err != nil {
			return err
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("invalid project status")
	}
	return validateDateRange(r.StartDate, r.DueDate)
}

func validateDateRange(start, due *time.Time) error {
	if start != nil && due != nil && due.Before(*start) {
		return fmt.Errorf("due date cannot be before start date")
	}
	return nil
}
