package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// FeedbackDTO is the optional reviewer payload merged into request metadata
// atomically with a status change.
type FeedbackDTO struct {
	Observations     *string            `json:"observations"`
	AdjustedValue    *string            `json:"adjusted_value"`
	AdjustedDeadline *string            `json:"adjusted_deadline"`
	Attachments      []model.Attachment `json:"attachments"`
}

type UpdateStatusDTO struct {
	Status   string       `json:"status" binding:"required,oneof=PENDING IN_REVIEW APPROVED DONE REJECTED"`
	Feedback *FeedbackDTO `json:"feedback"`
}

type DiscardRequestDTO struct {
	Reason string `json:"reason"`
}

// --- Interface ---

type TransitionService interface {
	UpdateStatus(ctx context.Context, id string, newStatus string, feedback *FeedbackDTO, userID string) (*model.Request, error)
	Discard(ctx context.Context, id string, reason string, userID string) (*model.Request, error)
}

type transitionService struct {
	requestRepo repository.RequestRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewTransitionService(
	requestRepo repository.RequestRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) TransitionService {
	return &transitionService{
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

// UpdateStatus validates and applies a status change, merging optional
// feedback into metadata as part of the same write. When the request enters
// the completing status for its type, the cascade rules run inside the same
// transaction: either the new status, the spawned downstream request and the
// audit rows all commit, or none of them do. A failed completion gate leaves
// the request untouched.
func (s *transitionService) UpdateStatus(ctx context.Context, id string, newStatus string, feedback *FeedbackDTO, userID string) (*model.Request, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", workflow.ErrNotFound, id)
	}

	var uid *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		uid = &parsed
	}

	var req *model.Request
	var child *model.Request
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		req, findErr = s.requestRepo.FindByID(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return workflow.ErrNotFound
			}
			return findErr
		}

		if tErr := workflow.CanTransition(req.Status, newStatus); tErr != nil {
			return tErr
		}

		completing := newStatus != req.Status && newStatus == workflow.CompletingStatus(req.Type)
		if completing {
			// Gate before mutating anything: an incomplete purchase must not
			// move to DONE, and the cascade must never fire on partial data.
			if gateErr := workflow.GateCompletion(req); gateErr != nil {
				return gateErr
			}
		}

		prevStatus := req.Status
		req.Status = newStatus
		if feedback != nil {
			req.Meta = req.Meta.Merge(feedbackMeta(*feedback))
		}

		if completing {
			child = workflow.TryCascade(req)
			if child != nil {
				now := time.Now()
				req.CascadedAt = &now
				if createErr := s.requestRepo.Create(txCtx, child); createErr != nil {
					return fmt.Errorf("failed to create cascaded request: %w", createErr)
				}

				childDetails, _ := json.Marshal(map[string]interface{}{
					"source_request_id": req.ID.String(),
					"type":              child.Type,
					"to_department":     child.ToDepartment,
				})
				childAudit := &model.AuditLog{
					Action:     model.ActionCascadeCreateRequest,
					EntityID:   child.ID.String(),
					EntityName: child.Title,
					Details:    string(childDetails),
				}
				if auditErr := s.auditRepo.Log(txCtx, childAudit); auditErr != nil {
					return fmt.Errorf("failed to write cascade audit log: %w", auditErr)
				}
			}
		}

		if saveErr := s.requestRepo.Save(txCtx, req); saveErr != nil {
			return fmt.Errorf("failed to update request status: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"from_status": prevStatus,
			"to_status":   newStatus,
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionUpdateRequestStatus,
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

	s.notify("request.status_changed", req)
	if child != nil {
		s.notify("request.created", child)
	}

	return req, nil
}

// Discard moves a request to REJECTED, the one terminal, always-reachable
// exit. The reason, if given, is kept as reviewer observations.
func (s *transitionService) Discard(ctx context.Context, id string, reason string, userID string) (*model.Request, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", workflow.ErrNotFound, id)
	}

	var uid *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		uid = &parsed
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

		if tErr := workflow.CanTransition(req.Status, model.StatusRejected); tErr != nil {
			return tErr
		}

		prevStatus := req.Status
		req.Status = model.StatusRejected
		if reason != "" {
			req.Meta = req.Meta.Merge(model.RequestMeta{Observations: &reason})
		}

		if saveErr := s.requestRepo.Save(txCtx, req); saveErr != nil {
			return fmt.Errorf("failed to discard request: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"from_status": prevStatus,
			"reason":      reason,
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionDiscardRequest,
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

	s.notify("request.discarded", req)

	return req, nil
}

// notify pushes a queue-change event to connected department dashboards.
// Delivery is best effort and happens only after the transaction committed.
func (s *transitionService) notify(event string, req *model.Request) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"event":         event,
		"request_id":    req.ID.String(),
		"to_department": req.ToDepartment,
		"status":        req.Status,
	})
	s.hub.Broadcast <- payload
}

// feedbackMeta maps the reviewer payload onto the metadata fields it patches.
func feedbackMeta(f FeedbackDTO) model.RequestMeta {
	meta := model.RequestMeta{
		Observations:     f.Observations,
		AdjustedDeadline: f.AdjustedDeadline,
		Attachments:      f.Attachments,
	}
	if f.AdjustedValue != nil {
		if parsed, err := decimal.NewFromString(*f.AdjustedValue); err == nil {
			meta.AdjustedValue = &parsed
		}
	}
	return meta
}
