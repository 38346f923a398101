package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransitionFixture() (TransitionService, *fakeRequestRepo, *fakeAuditRepo) {
	requests := newFakeRequestRepo()
	audits := &fakeAuditRepo{}
	tx := &fakeTxManager{requests: requests, audits: audits}
	return NewTransitionService(requests, audits, tx, nil), requests, audits
}

func seedRequest(repo *fakeRequestRepo, req model.Request) uuid.UUID {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	repo.store[req.ID] = req
	return req.ID
}

func seedPurchase(repo *fakeRequestRepo, status string) uuid.UUID {
	supplier := "ACME Construction Supplies"
	cost := decimal.RequireFromString("4200")
	delivery := "2026-03-10"
	return seedRequest(repo, model.Request{
		Title:          "Cement order for foundation",
		Description:    "20 tons of CP-II cement",
		Priority:       model.PriorityHigh,
		FromDepartment: model.DeptEngineering,
		ToDepartment:   model.DeptPurchasing,
		Type:           model.ReqTypeMaterialPurchase,
		Status:         status,
		Meta: model.RequestMeta{
			Supplier:     &supplier,
			Cost:         &cost,
			DeliveryDate: &delivery,
		},
	})
}

func TestUpdateStatus_SimpleTransition(t *testing.T) {
	svc, requests, audits := newTransitionFixture()
	id := seedRequest(requests, model.Request{
		Title:          "Hire two site surveyors",
		Description:    "Temporary contracts for the Q2 survey",
		Priority:       model.PriorityMedium,
		FromDepartment: model.DeptEngineering,
		ToDepartment:   model.DeptHR,
		Type:           model.ReqTypeGeneric,
		Status:         model.StatusPending,
	})

	userID := uuid.New()
	req, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusInReview, nil, userID.String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusInReview, req.Status)

	stored := requests.store[id]
	assert.Equal(t, model.StatusInReview, stored.Status)

	require.Len(t, audits.entries, 1)
	assert.Equal(t, model.ActionUpdateRequestStatus, audits.entries[0].Action)
	require.NotNil(t, audits.entries[0].UserID)
	assert.Equal(t, userID, *audits.entries[0].UserID)
}

func TestUpdateStatus_CompletePurchaseCascades(t *testing.T) {
	svc, requests, audits := newTransitionFixture()
	id := seedPurchase(requests, model.StatusInReview)

	req, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusDone, nil, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, req.Status)
	require.NotNil(t, req.CascadedAt)

	// Exactly one new request appeared: the payment authorization for finance
	require.Len(t, requests.store, 2)
	var child model.Request
	for storedID, stored := range requests.store {
		if storedID != id {
			child = stored
		}
	}
	assert.Equal(t, model.ReqTypePaymentAuthorization, child.Type)
	assert.Equal(t, model.DeptFinance, child.ToDepartment)
	assert.Equal(t, model.StatusPending, child.Status)
	require.NotNil(t, child.RecordID)
	assert.Equal(t, id, *child.RecordID)
	require.NotNil(t, child.Meta.Amount)
	assert.True(t, child.Meta.Amount.Equal(decimal.RequireFromString("4200")))
	require.NotNil(t, child.Meta.DueDate)
	assert.Equal(t, "2026-03-10", *child.Meta.DueDate)

	assert.ElementsMatch(t, []string{model.ActionCascadeCreateRequest, model.ActionUpdateRequestStatus}, audits.actions())
}

func TestUpdateStatus_GateBlocksIncompletePurchase(t *testing.T) {
	svc, requests, audits := newTransitionFixture()
	id := seedPurchase(requests, model.StatusInReview)

	// Strip the supplier: completion must now be refused outright
	stored := requests.store[id]
	stored.Meta.Supplier = nil
	requests.store[id] = stored

	_, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusDone, nil, uuid.NewString())
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrMissingField)

	// Nothing changed: same status, no spawned request, no audit rows
	assert.Equal(t, model.StatusInReview, requests.store[id].Status)
	assert.Len(t, requests.store, 1)
	assert.Empty(t, audits.entries)
}

func TestUpdateStatus_CascadeFiresAtMostOnce(t *testing.T) {
	svc, requests, _ := newTransitionFixture()
	id := seedPurchase(requests, model.StatusInReview)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, id.String(), model.StatusDone, nil, uuid.NewString())
	require.NoError(t, err)
	require.Len(t, requests.store, 2)

	// Pull the purchase back for rework and complete it a second time:
	// the payment authorization must not be duplicated.
	_, err = svc.UpdateStatus(ctx, id.String(), model.StatusPending, nil, uuid.NewString())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, id.String(), model.StatusDone, nil, uuid.NewString())
	require.NoError(t, err)

	assert.Len(t, requests.store, 2)
}

func TestUpdateStatus_RepeatedStatusIsIdempotent(t *testing.T) {
	svc, requests, _ := newTransitionFixture()
	id := seedPurchase(requests, model.StatusDone)

	// DONE -> DONE is a no-op transition: allowed, but not a completion event
	_, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusDone, nil, uuid.NewString())
	require.NoError(t, err)
	assert.Len(t, requests.store, 1)
}

func TestUpdateStatus_RejectedIsTerminal(t *testing.T) {
	svc, requests, _ := newTransitionFixture()
	id := seedPurchase(requests, model.StatusRejected)

	_, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusPending, nil, uuid.NewString())
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := newTransitionFixture()

	_, err := svc.UpdateStatus(context.Background(), uuid.NewString(), model.StatusDone, nil, uuid.NewString())
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	_, err = svc.UpdateStatus(context.Background(), "not-a-uuid", model.StatusDone, nil, uuid.NewString())
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestUpdateStatus_FeedbackMergedOnApproval(t *testing.T) {
	svc, requests, _ := newTransitionFixture()
	id := seedRequest(requests, model.Request{
		Title:          "Q3 budget for structural works",
		Description:    "Validate the revised structural budget",
		Priority:       model.PriorityHigh,
		FromDepartment: model.DeptFinance,
		ToDepartment:   model.DeptEngineering,
		Type:           model.ReqTypeBudgetValidation,
		Status:         model.StatusInReview,
	})

	obs := "Approved with a 5% contingency trim"
	adjusted := "118500.00"
	deadline := "2026-09-30"
	feedback := &FeedbackDTO{
		Observations:     &obs,
		AdjustedValue:    &adjusted,
		AdjustedDeadline: &deadline,
	}

	req, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusApproved, feedback, uuid.NewString())
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, req.Status)
	require.NotNil(t, req.Meta.Observations)
	assert.Equal(t, obs, *req.Meta.Observations)
	require.NotNil(t, req.Meta.AdjustedValue)
	assert.True(t, req.Meta.AdjustedValue.Equal(decimal.RequireFromString("118500.00")))
	require.NotNil(t, req.Meta.AdjustedDeadline)
	assert.Equal(t, deadline, *req.Meta.AdjustedDeadline)

	// Validations complete at APPROVED but never cascade
	assert.Len(t, requests.store, 1)
}

func TestDiscard(t *testing.T) {
	svc, requests, audits := newTransitionFixture()
	id := seedPurchase(requests, model.StatusInReview)

	req, err := svc.Discard(context.Background(), id.String(), "duplicate of an earlier order", uuid.NewString())
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, req.Status)
	require.NotNil(t, req.Meta.Observations)
	assert.Equal(t, "duplicate of an earlier order", *req.Meta.Observations)

	require.Len(t, audits.entries, 1)
	assert.Equal(t, model.ActionDiscardRequest, audits.entries[0].Action)
}

func TestDiscard_AlreadyRejected(t *testing.T) {
	svc, requests, _ := newTransitionFixture()
	id := seedPurchase(requests, model.StatusRejected)

	_, err := svc.Discard(context.Background(), id.String(), "", uuid.NewString())
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}
