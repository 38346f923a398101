package workflow

import (
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func purchaseRequest() *model.Request {
	return &model.Request{
		ID:             uuid.New(),
		Title:          "Cement order for foundation",
		Description:    "20 tons of CP-II cement",
		Priority:       model.PriorityHigh,
		FromDepartment: model.DeptEngineering,
		ToDepartment:   model.DeptPurchasing,
		Type:           model.ReqTypeMaterialPurchase,
		Status:         model.StatusDone,
		Meta: model.RequestMeta{
			Supplier:     strPtr("ACME Construction Supplies"),
			Cost:         decPtr("4200"),
			DeliveryDate: strPtr("2026-03-10"),
		},
	}
}

func TestGateCompletion_PurchaseRequiresSupplierAndCost(t *testing.T) {
	req := purchaseRequest()
	assert.NoError(t, GateCompletion(req))

	missingSupplier := purchaseRequest()
	missingSupplier.Meta.Supplier = nil
	err := GateCompletion(missingSupplier)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)

	emptySupplier := purchaseRequest()
	emptySupplier.Meta.Supplier = strPtr("")
	assert.ErrorIs(t, GateCompletion(emptySupplier), ErrMissingField)

	missingCost := purchaseRequest()
	missingCost.Meta.Cost = nil
	assert.ErrorIs(t, GateCompletion(missingCost), ErrMissingField)
}

func TestGateCompletion_OtherTypesUnconditional(t *testing.T) {
	for _, reqType := range []string{
		model.ReqTypeBudgetValidation,
		model.ReqTypeFinancialValidation,
		model.ReqTypePaymentAuthorization,
		model.ReqTypeGeneric,
	} {
		req := &model.Request{Type: reqType}
		assert.NoError(t, GateCompletion(req), "type %s has no completion gate", reqType)
	}
}

func TestTryCascade_PurchaseSpawnsPaymentAuthorization(t *testing.T) {
	projectID := uuid.New()
	src := purchaseRequest()
	src.ProjectID = &projectID

	child := TryCascade(src)
	require.NotNil(t, child)

	assert.Equal(t, model.ReqTypePaymentAuthorization, child.Type)
	assert.Equal(t, model.DeptPurchasing, child.FromDepartment)
	assert.Equal(t, model.DeptFinance, child.ToDepartment)
	assert.Equal(t, model.StatusPending, child.Status)
	assert.Equal(t, "PAYMENT: "+src.Title, child.Title)
	assert.Equal(t, src.Priority, child.Priority)

	// Lineage and project carried over
	require.NotNil(t, child.RecordID)
	assert.Equal(t, src.ID, *child.RecordID)
	require.NotNil(t, child.ProjectID)
	assert.Equal(t, projectID, *child.ProjectID)

	// The amount due is the purchase cost, due on the delivery date
	require.NotNil(t, child.Meta.Amount)
	assert.True(t, child.Meta.Amount.Equal(decimal.RequireFromString("4200")))
	require.NotNil(t, child.Meta.DueDate)
	assert.Equal(t, "2026-03-10", *child.Meta.DueDate)
	require.NotNil(t, child.Meta.Supplier)
	assert.Equal(t, "ACME Construction Supplies", *child.Meta.Supplier)
}

func TestTryCascade_FiresAtMostOnce(t *testing.T) {
	src := purchaseRequest()
	require.NotNil(t, TryCascade(src))

	fired := purchaseRequest()
	now := fired.CreatedAt
	fired.CascadedAt = &now
	assert.Nil(t, TryCascade(fired))
}

func TestTryCascade_OnlyFromPurchasing(t *testing.T) {
	src := purchaseRequest()
	src.ToDepartment = model.DeptLogistics
	assert.Nil(t, TryCascade(src))
}

func TestTryCascade_OtherTypesDoNotCascade(t *testing.T) {
	for _, reqType := range []string{
		model.ReqTypeBudgetValidation,
		model.ReqTypeFinancialValidation,
		model.ReqTypePaymentAuthorization,
		model.ReqTypeGeneric,
	} {
		src := purchaseRequest()
		src.Type = reqType
		assert.Nil(t, TryCascade(src), "type %s must not cascade", reqType)
	}
}

func TestTryCascade_IncompleteMetaDoesNotFire(t *testing.T) {
	src := purchaseRequest()
	src.Meta.Cost = nil
	assert.Nil(t, TryCascade(src))

	src = purchaseRequest()
	src.Meta.Supplier = nil
	assert.Nil(t, TryCascade(src))
}
