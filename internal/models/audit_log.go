package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit entry outcomes.
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// AuditLog is an append-only record of a state-changing action. Actor fields
// are captured by value at the time of the action; a later role change never
// rewrites history. Rows are only ever deleted by the retention cleanup.
type AuditLog struct {
	ID         string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     *string        `gorm:"type:uuid;index" json:"user_id"`
	Email      string         `json:"email"`
	Role       string         `gorm:"index" json:"role"`
	Action     string         `gorm:"not null;index" json:"action"`
	Resource   string         `gorm:"index" json:"resource"`
	ResourceID string         `json:"resource_id"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	Status     string         `gorm:"not null;index" json:"status"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
