package model

import (
	"time"

	"github.com/google/uuid"
)

// FieldRecordItem is a single captured observation inside a field record.
type FieldRecordItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldRecord is an on-site evidentiary capture (measurements, findings,
// photos) that may originate a departmental request. Read-only to the
// workflow engine; requests reference it through Request.RecordID.
type FieldRecord struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string            `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	ProjectID *uuid.UUID        `gorm:"type:uuid;index" json:"project_id"`
	Project   *Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Items     []FieldRecordItem `gorm:"type:jsonb;serializer:json" json:"items"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
}
