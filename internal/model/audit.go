package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	// Request workflow actions
	ActionCreateRequest        = "CREATE_REQUEST"
	ActionUpdateRequest        = "UPDATE_REQUEST"
	ActionUpdateRequestStatus  = "UPDATE_REQUEST_STATUS"
	ActionDiscardRequest       = "DISCARD_REQUEST"
	ActionCascadeCreateRequest = "CASCADE_CREATE_REQUEST"

	ActionCreateProject     = "CREATE_PROJECT"
	ActionCreateFieldRecord = "CREATE_FIELD_RECORD"
	ActionCreateUser        = "CREATE_USER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated (cascade)
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
