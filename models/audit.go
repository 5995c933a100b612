package models

import "time"

// AuditLog, admin işlemlerinin denetim kaydı.
type AuditLog struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

// Audit aksiyonları.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
	AuditAssign = "assign"
	AuditReview = "review"
)

// AuditFilter, denetim kaydı listesi filtreleri.
type AuditFilter struct {
	EntityType string
	ActorID    string
	Limit      int
	Offset     int
}
