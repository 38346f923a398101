package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus enum constants
const (
	ProjectStatusLead      = "LEAD"
	ProjectStatusActive    = "ACTIVE"
	ProjectStatusOnHold    = "ON_HOLD"
	ProjectStatusDelivered = "DELIVERED"
)

// Project is a construction project requests can be associated with.
// The workflow engine only reads it for association and display.
type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Code      string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Status    string    `gorm:"type:varchar(20);not null;default:'LEAD';index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
