package models

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus, görev durumu (gorevler).
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid, durumun tanımlı değerlerden biri olup olmadığını döner.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority, görev önceliği.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid, önceliğin tanımlı değerlerden biri olup olmadığını döner.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task, bir projeye bağlı görev.
// CompanyID, firma bazlı sorgular için projeden kopyalanır.
type Task struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"project_id"`
	CompanyID   string       `json:"company_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	AssigneeID  *string      `json:"assignee_id"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SetStatus, durumu değiştirir ve completed_at'i senkronize eder.
// done'a geçişte zaman damgası basılır, done'dan çıkışta temizlenir.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	if status == TaskStatusDone && t.Status != TaskStatusDone {
		t.CompletedAt = &now
	}
	if status != TaskStatusDone {
		t.CompletedAt = nil
	}
	t.Status = status
}

// TaskFilter, firma görev listesi filtreleri.
type TaskFilter struct {
	ProjectID  string
	AssigneeID string
	Status     TaskStatus
	// ActiveFrom/ActiveTo doluysa yalnızca [ActiveFrom, ActiveTo) aralığında
	// açık olan görevler döner: aralık bitmeden oluşturulmuş ve aralık
	// başlamadan tamamlanmamış.
	ActiveFrom time.Time
	ActiveTo   time.Time
}

// CreateTaskRequest, görev oluşturma isteği.
type CreateTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	AssigneeID  *string      `json:"assignee_id"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
}

// Validate, CreateTaskRequest'i doğrular.
func (r *CreateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	trimPtr(r.AssigneeID)
	if r.AssigneeID != nil && *r.AssigneeID == "" {
		r.AssigneeID = nil
	}
	if r.Status == "" {
		r.Status = TaskStatusTodo
	}
	if r.Priority == "" {
		r.Priority = TaskPriorityMedium
	}

	if err := validateLength("task title", r.Title, 1, 200); err != nil {
		return err
	}
	if err := validateLength("description", r.Description, 0, 5000); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid task status")
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("invalid task priority")
	}
	return nil
}

// UpdateTaskRequest, görev güncelleme isteği.
// AssigneeID için boş string atamayı kaldırır.
type UpdateTaskRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	AssigneeID  *string       `json:"assignee_id"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	DueDate     *time.Time    `json:"due_date"`
}

// Validate, sadece gönderilen alanları doğrular.
func (r *UpdateTaskRequest) Validate() error {
	trimPtr(r.Title)
	trimPtr(r.Description)
	trimPtr(r.AssigneeID)
	if r.Title != nil {
		if err := validateLength("task title", *r.Title, 1, 200); err != nil {
			return err
		}
	}
	if r.Description != nil {
		if err := validateLength("description", *r.Description, 0, 5000); err != nil {
			return err
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("invalid task status")
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return fmt.Errorf("invalid task priority")
	}
	return nil
}
