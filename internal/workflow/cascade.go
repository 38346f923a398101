package workflow

import (
	"fmt"

	"backend/internal/model"
)

// GateCompletion validates that a request may enter its completing status.
// It must be checked before any mutation: when it fails, the request's status
// and metadata stay exactly as they were.
func GateCompletion(req *model.Request) error {
	switch req.Type {
	case model.ReqTypeMaterialPurchase:
		if req.Meta.Supplier == nil || *req.Meta.Supplier == "" {
			return fmt.Errorf("%w: metadata.supplier", ErrCascadePrecondition)
		}
		if req.Meta.Cost == nil {
			return fmt.Errorf("%w: metadata.cost", ErrCascadePrecondition)
		}
	}
	return nil
}

// TryCascade decides whether completing req spawns a downstream request and,
// if so, synthesizes it. Pure: it never touches storage. The caller commits
// the returned request atomically with req's own status flip.
//
// A request cascades at most once: re-completing a request that already
// fired (CascadedAt set) returns nil.
//
// Current rule table: a MATERIAL_PURCHASE completed by PURCHASING spawns a
// PAYMENT_AUTHORIZATION addressed to FINANCE, carrying the purchase cost as
// the amount due and the delivery date as the due date. RecordID points back
// at the purchase for lineage.
func TryCascade(completed *model.Request) *model.Request {
	if completed.CascadedAt != nil {
		return nil
	}

	switch completed.Type {
	case model.ReqTypeMaterialPurchase:
		if completed.ToDepartment != model.DeptPurchasing {
			return nil
		}
		if completed.Meta.Supplier == nil || completed.Meta.Cost == nil {
			return nil
		}
		sourceID := completed.ID
		return &model.Request{
			Title:          "PAYMENT: " + completed.Title,
			Description:    "Payment authorization for purchase " + completed.Title,
			Priority:       completed.Priority,
			FromDepartment: model.DeptPurchasing,
			ToDepartment:   model.DeptFinance,
			Type:           model.ReqTypePaymentAuthorization,
			Status:         model.StatusPending,
			ProjectID:      completed.ProjectID,
			RecordID:       &sourceID,
			Meta: model.RequestMeta{
				Amount:   completed.Meta.Cost,
				Supplier: completed.Meta.Supplier,
				DueDate:  completed.Meta.DeliveryDate,
			},
		}
	}

	return nil
}
