package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRequestDTO struct {
	Title          string            `json:"title" binding:"required"`
	Description    string            `json:"description" binding:"required"`
	Priority       string            `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	FromDepartment string            `json:"from_department" binding:"required,oneof=ENGINEERING DESIGN FINANCE PURCHASING HR LOGISTICS COMMERCIAL"`
	ToDepartment   string            `json:"to_department" binding:"required,oneof=ENGINEERING DESIGN FINANCE PURCHASING HR LOGISTICS COMMERCIAL"`
	Type           string            `json:"type" binding:"required,oneof=BUDGET_VALIDATION FINANCIAL_VALIDATION MATERIAL_PURCHASE PAYMENT_AUTHORIZATION GENERIC"`
	Status         string            `json:"status" binding:"omitempty,oneof=PENDING IN_REVIEW APPROVED DONE REJECTED"`
	ProjectID      string            `json:"project_id"`
	RecordID       string            `json:"record_id"`
	Meta           model.RequestMeta `json:"metadata"`
}

// UpdateRequestDTO is a partial patch: nil fields are left untouched, the
// metadata patch is merged key-by-key.
type UpdateRequestDTO struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Priority    *string            `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Meta        *model.RequestMeta `json:"metadata"`
}

// --- Interface ---

type RequestService interface {
	Create(ctx context.Context, dto CreateRequestDTO, userID string) (*model.Request, error)
	GetByID(ctx context.Context, id string) (*model.Request, error)
	Update(ctx context.Context, id string, patch UpdateRequestDTO, userID string) (*model.Request, error)
	List(ctx context.Context, page, limit int) ([]model.Request, int64, error)
	GetByDepartment(ctx context.Context, dept string) ([]model.Request, error)
	GetActiveByDepartment(ctx context.Context, dept string) ([]model.Request, error)
}

type requestService struct {
	requestRepo repository.RequestRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *requestService) Create(ctx context.Context, dto CreateRequestDTO, userID string) (*model.Request, error) {
	if dto.Title == "" {
		return nil, fmt.Errorf("%w: title", workflow.ErrMissingField)
	}
	if dto.Description == "" {
		return nil, fmt.Errorf("%w: description", workflow.ErrMissingField)
	}
	if !model.ValidRequestType(dto.Type) {
		return nil, fmt.Errorf("%w: type", workflow.ErrMissingField)
	}
	if !model.ValidDepartment(dto.FromDepartment) {
		return nil, fmt.Errorf("%w: from_department", workflow.ErrMissingField)
	}
	if !model.ValidDepartment(dto.ToDepartment) {
		return nil, fmt.Errorf("%w: to_department", workflow.ErrMissingField)
	}

	status := dto.Status
	if status == "" {
		status = model.StatusPending
	}
	priority := dto.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	req := &model.Request{
		Title:          dto.Title,
		Description:    dto.Description,
		Priority:       priority,
		FromDepartment: dto.FromDepartment,
		ToDepartment:   dto.ToDepartment,
		Type:           dto.Type,
		Status:         status,
		Meta:           dto.Meta,
	}

	if dto.ProjectID != "" {
		projectID, err := uuid.Parse(dto.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid project_id: %w", err)
		}
		req.ProjectID = &projectID
	}
	if dto.RecordID != "" {
		recordID, err := uuid.Parse(dto.RecordID)
		if err != nil {
			return nil, fmt.Errorf("invalid record_id: %w", err)
		}
		req.RecordID = &recordID
	}
	if parsed, err := uuid.Parse(userID); err == nil {
		req.RequestedBy = &parsed
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.requestRepo.Create(txCtx, req); createErr != nil {
			return fmt.Errorf("failed to create request: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"type":            req.Type,
			"from_department": req.FromDepartment,
			"to_department":   req.ToDepartment,
			"priority":        req.Priority,
		})
		audit := &model.AuditLog{
			UserID:     req.RequestedBy,
			Action:     model.ActionCreateRequest,
			EntityID:   req.ID.String(),
			EntityName: req.Title,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

func (s *requestService) GetByID(ctx context.Context, id string) (*model.Request, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", workflow.ErrNotFound, id)
	}

	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *requestService) Update(ctx context.Context, id string, patch UpdateRequestDTO, userID string) (*model.Request, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", workflow.ErrNotFound, id)
	}

	var req *model.Request
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		req, findErr = s.requestRepo.FindByID(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return workflow.ErrNotFound
			}
			return findErr
		}

		if patch.Title != nil {
			req.Title = *patch.Title
		}
		if patch.Description != nil {
			req.Description = *patch.Description
		}
		if patch.Priority != nil {
			req.Priority = *patch.Priority
		}
		if patch.Meta != nil {
			req.Meta = req.Meta.Merge(*patch.Meta)
		}

		if saveErr := s.requestRepo.Save(txCtx, req); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(patch)
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionUpdateRequest,
			EntityID:   req.ID.String(),
			EntityName: req.Title,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

func (s *requestService) List(ctx context.Context, page, limit int) ([]model.Request, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.requestRepo.List(ctx, page, limit)
}

func (s *requestService) GetByDepartment(ctx context.Context, dept string) ([]model.Request, error) {
	if !model.ValidDepartment(dept) {
		return nil, fmt.Errorf("%w: department", workflow.ErrMissingField)
	}
	return s.requestRepo.ListByDepartment(ctx, dept, false)
}

func (s *requestService) GetActiveByDepartment(ctx context.Context, dept string) ([]model.Request, error) {
	if !model.ValidDepartment(dept) {
		return nil, fmt.Errorf("%w: department", workflow.ErrMissingField)
	}
	return s.requestRepo.ListByDepartment(ctx, dept, true)
}
