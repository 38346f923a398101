package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Department enum constants. Every request is routed from one department's
// queue to another's.
const (
	DeptEngineering = "ENGINEERING"
	DeptDesign      = "DESIGN"
	DeptFinance     = "FINANCE"
	DeptPurchasing  = "PURCHASING"
	DeptHR          = "HR"
	DeptLogistics   = "LOGISTICS"
	DeptCommercial  = "COMMERCIAL"
)

// RequestType enum constants
const (
	ReqTypeBudgetValidation     = "BUDGET_VALIDATION"
	ReqTypeFinancialValidation  = "FINANCIAL_VALIDATION"
	ReqTypeMaterialPurchase     = "MATERIAL_PURCHASE"
	ReqTypePaymentAuthorization = "PAYMENT_AUTHORIZATION"
	ReqTypeGeneric              = "GENERIC"
)

// RequestStatus enum constants
const (
	StatusPending  = "PENDING"
	StatusInReview = "IN_REVIEW"
	StatusApproved = "APPROVED"
	StatusDone     = "DONE"
	StatusRejected = "REJECTED"
)

// RequestPriority enum constants
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

var departments = map[string]bool{
	DeptEngineering: true,
	DeptDesign:      true,
	DeptFinance:     true,
	DeptPurchasing:  true,
	DeptHR:          true,
	DeptLogistics:   true,
	DeptCommercial:  true,
}

var requestTypes = map[string]bool{
	ReqTypeBudgetValidation:     true,
	ReqTypeFinancialValidation:  true,
	ReqTypeMaterialPurchase:     true,
	ReqTypePaymentAuthorization: true,
	ReqTypeGeneric:              true,
}

var requestStatuses = map[string]bool{
	StatusPending:  true,
	StatusInReview: true,
	StatusApproved: true,
	StatusDone:     true,
	StatusRejected: true,
}

func ValidDepartment(d string) bool    { return departments[d] }
func ValidRequestType(t string) bool   { return requestTypes[t] }
func ValidRequestStatus(s string) bool { return requestStatuses[s] }

// Attachment is a file reference carried inside request metadata.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RequestMeta is the sparse, type-dependent payload of a request.
// Which fields are meaningful (or required) depends on Request.Type:
// purchases carry supplier/cost/delivery_date, payment authorizations carry
// amount/supplier/due_date, validations carry reviewer feedback.
type RequestMeta struct {
	Supplier         *string          `json:"supplier,omitempty"`
	Cost             *decimal.Decimal `json:"cost,omitempty"`
	DeliveryDate     *string          `json:"delivery_date,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	DueDate          *string          `json:"due_date,omitempty"`
	Observations     *string          `json:"observations,omitempty"`
	AdjustedValue    *decimal.Decimal `json:"adjusted_value,omitempty"`
	AdjustedDeadline *string          `json:"adjusted_deadline,omitempty"`
	Attachments      []Attachment     `json:"attachments,omitempty"`
}

// Merge applies patch key-by-key: fields present in the patch replace the
// stored value, absent fields are preserved. Applying the same patch twice
// yields the same result.
func (m RequestMeta) Merge(patch RequestMeta) RequestMeta {
	out := m
	if patch.Supplier != nil {
		out.Supplier = patch.Supplier
	}
	if patch.Cost != nil {
		out.Cost = patch.Cost
	}
	if patch.DeliveryDate != nil {
		out.DeliveryDate = patch.DeliveryDate
	}
	if patch.Amount != nil {
		out.Amount = patch.Amount
	}
	if patch.DueDate != nil {
		out.DueDate = patch.DueDate
	}
	if patch.Observations != nil {
		out.Observations = patch.Observations
	}
	if patch.AdjustedValue != nil {
		out.AdjustedValue = patch.AdjustedValue
	}
	if patch.AdjustedDeadline != nil {
		out.AdjustedDeadline = patch.AdjustedDeadline
	}
	if patch.Attachments != nil {
		out.Attachments = patch.Attachments
	}
	return out
}

// Request is an interdepartmental work item: a budget validation, purchase
// requisition, payment authorization or generic departmental request routed
// between department queues.
//
// RecordID may point at the field record that originated the request, or at
// another request when this one was spawned by a cascade (lineage).
type Request struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title          string       `gorm:"type:varchar(255);not null" json:"title"`
	Description    string       `gorm:"type:text;not null" json:"description"`
	Priority       string       `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	FromDepartment string       `gorm:"type:varchar(30);not null;index" json:"from_department"`
	ToDepartment   string       `gorm:"type:varchar(30);not null;index" json:"to_department"`
	Type           string       `gorm:"type:varchar(30);not null;index" json:"type"`
	Status         string       `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ProjectID      *uuid.UUID   `gorm:"type:uuid;index" json:"project_id"`
	Project        *Project     `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	RecordID       *uuid.UUID   `gorm:"type:uuid;index" json:"record_id"`
	Meta           RequestMeta  `gorm:"type:jsonb;serializer:json" json:"metadata"`
	RequestedBy    *uuid.UUID   `gorm:"type:uuid;index" json:"requested_by"`
	Requester      *User        `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	CascadedAt     *time.Time   `json:"cascaded_at,omitempty"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
