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

func newRequestFixture() (RequestService, *fakeRequestRepo, *fakeAuditRepo) {
	requests := newFakeRequestRepo()
	audits := &fakeAuditRepo{}
	tx := &fakeTxManager{requests: requests, audits: audits}
	return NewRequestService(requests, audits, tx), requests, audits
}

func validCreateDTO() CreateRequestDTO {
	return CreateRequestDTO{
		Title:          "Steel beams for level 3",
		Description:    "12 IPE-300 beams, cut to plan",
		FromDepartment: model.DeptEngineering,
		ToDepartment:   model.DeptPurchasing,
		Type:           model.ReqTypeMaterialPurchase,
	}
}

func TestCreate_DefaultsAndAudit(t *testing.T) {
	svc, requests, audits := newRequestFixture()
	userID := uuid.New()

	req, err := svc.Create(context.Background(), validCreateDTO(), userID.String())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.Equal(t, model.PriorityMedium, req.Priority)
	require.NotNil(t, req.RequestedBy)
	assert.Equal(t, userID, *req.RequestedBy)

	assert.Len(t, requests.store, 1)
	require.Len(t, audits.entries, 1)
	assert.Equal(t, model.ActionCreateRequest, audits.entries[0].Action)
	assert.Equal(t, req.ID.String(), audits.entries[0].EntityID)
}

func TestCreate_RequiredFields(t *testing.T) {
	svc, requests, _ := newRequestFixture()
	ctx := context.Background()

	cases := map[string]func(*CreateRequestDTO){
		"title":           func(d *CreateRequestDTO) { d.Title = "" },
		"description":     func(d *CreateRequestDTO) { d.Description = "" },
		"type":            func(d *CreateRequestDTO) { d.Type = "INVALID" },
		"from_department": func(d *CreateRequestDTO) { d.FromDepartment = "" },
		"to_department":   func(d *CreateRequestDTO) { d.ToDepartment = "WAREHOUSE" },
	}

	for name, mutate := range cases {
		dto := validCreateDTO()
		mutate(&dto)
		_, err := svc.Create(ctx, dto, uuid.NewString())
		require.Error(t, err, "missing %s must be rejected", name)
		assert.ErrorIs(t, err, workflow.ErrMissingField)
	}

	assert.Empty(t, requests.store)
}

func TestCreate_BadProjectID(t *testing.T) {
	svc, _, _ := newRequestFixture()

	dto := validCreateDTO()
	dto.ProjectID = "not-a-uuid"
	_, err := svc.Create(context.Background(), dto, uuid.NewString())
	assert.Error(t, err)
}

func TestUpdate_PatchMergesMetadata(t *testing.T) {
	svc, requests, audits := newRequestFixture()

	supplier := "ACME Construction Supplies"
	id := seedRequest(requests, model.Request{
		Title:          "Steel beams for level 3",
		Description:    "12 IPE-300 beams",
		Priority:       model.PriorityMedium,
		FromDepartment: model.DeptEngineering,
		ToDepartment:   model.DeptPurchasing,
		Type:           model.ReqTypeMaterialPurchase,
		Status:         model.StatusInReview,
		Meta:           model.RequestMeta{Supplier: &supplier},
	})

	cost := decimal.RequireFromString("4200")
	delivery := "2026-03-10"
	newPriority := model.PriorityHigh
	patch := UpdateRequestDTO{
		Priority: &newPriority,
		Meta:     &model.RequestMeta{Cost: &cost, DeliveryDate: &delivery},
	}

	req, err := svc.Update(context.Background(), id.String(), patch, uuid.NewString())
	require.NoError(t, err)

	assert.Equal(t, model.PriorityHigh, req.Priority)
	// Untouched fields survive the patch
	assert.Equal(t, "Steel beams for level 3", req.Title)
	require.NotNil(t, req.Meta.Supplier)
	assert.Equal(t, supplier, *req.Meta.Supplier)
	require.NotNil(t, req.Meta.Cost)
	assert.True(t, req.Meta.Cost.Equal(cost))

	require.Len(t, audits.entries, 1)
	assert.Equal(t, model.ActionUpdateRequest, audits.entries[0].Action)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newRequestFixture()

	_, err := svc.Update(context.Background(), uuid.NewString(), UpdateRequestDTO{}, uuid.NewString())
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestGetByDepartment_ActiveFiltersClosed(t *testing.T) {
	svc, requests, _ := newRequestFixture()
	ctx := context.Background()

	for _, status := range []string{
		model.StatusPending, model.StatusInReview, model.StatusApproved,
		model.StatusDone, model.StatusRejected,
	} {
		seedRequest(requests, model.Request{
			Title:          "queue item " + status,
			Description:    "x",
			FromDepartment: model.DeptEngineering,
			ToDepartment:   model.DeptPurchasing,
			Type:           model.ReqTypeGeneric,
			Status:         status,
		})
	}
	// Another department's request never shows up
	seedRequest(requests, model.Request{
		Title:          "elsewhere",
		Description:    "x",
		FromDepartment: model.DeptEngineering,
		ToDepartment:   model.DeptHR,
		Type:           model.ReqTypeGeneric,
		Status:         model.StatusPending,
	})

	all, err := svc.GetByDepartment(ctx, model.DeptPurchasing)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	active, err := svc.GetActiveByDepartment(ctx, model.DeptPurchasing)
	require.NoError(t, err)
	require.Len(t, active, 3)
	for _, req := range active {
		assert.False(t, workflow.IsClosed(req.Status))
	}
}

func TestGetByDepartment_UnknownDepartment(t *testing.T) {
	svc, _, _ := newRequestFixture()

	_, err := svc.GetByDepartment(context.Background(), "MARKETING")
	assert.ErrorIs(t, err, workflow.ErrMissingField)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _ := newRequestFixture()

	_, err := svc.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "bogus")
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}
