package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateFieldRecordDTO struct {
	Code      string                  `json:"code" binding:"required"`
	ProjectID string                  `json:"project_id"`
	Items     []model.FieldRecordItem `json:"items"`
}

// --- Interface ---

type FieldRecordService interface {
	Create(ctx context.Context, dto CreateFieldRecordDTO, userID string) (*model.FieldRecord, error)
	GetByID(ctx context.Context, id string) (*model.FieldRecord, error)
	List(ctx context.Context, page, limit int) ([]model.FieldRecord, int64, error)
}

type fieldRecordService struct {
	recordRepo repository.FieldRecordRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewFieldRecordService(
	recordRepo repository.FieldRecordRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) FieldRecordService {
	return &fieldRecordService{
		recordRepo: recordRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
	}
}

// --- Implementation ---

func (s *fieldRecordService) Create(ctx context.Context, dto CreateFieldRecordDTO, userID string) (*model.FieldRecord, error) {
	record := &model.FieldRecord{
		Code:  dto.Code,
		Items: dto.Items,
	}

	if dto.ProjectID != "" {
		projectID, err := uuid.Parse(dto.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid project_id: %w", err)
		}
		record.ProjectID = &projectID
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.recordRepo.Create(txCtx, record); createErr != nil {
			return fmt.Errorf("failed to create field record: %w", createErr)
		}

		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			uid = &parsed
		}
		details, _ := json.Marshal(map[string]interface{}{
			"code":  dto.Code,
			"items": len(dto.Items),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionCreateFieldRecord,
			EntityID:   record.ID.String(),
			EntityName: record.Code,
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

	return record, nil
}

func (s *fieldRecordService) GetByID(ctx context.Context, id string) (*model.FieldRecord, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid record id: %w", err)
	}

	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("field record not found")
		}
		return nil, err
	}
	return record, nil
}

func (s *fieldRecordService) List(ctx context.Context, page, limit int) ([]model.FieldRecord, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.recordRepo.List(ctx, page, limit)
}
