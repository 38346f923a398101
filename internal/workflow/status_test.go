package workflow

import (
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsClosed(t *testing.T) {
	assert.False(t, IsClosed(model.StatusPending))
	assert.False(t, IsClosed(model.StatusInReview))
	assert.False(t, IsClosed(model.StatusApproved))
	assert.True(t, IsClosed(model.StatusDone))
	assert.True(t, IsClosed(model.StatusRejected))
}

func TestCanTransition_FreeMovement(t *testing.T) {
	// Any non-terminal status may move to any known status, including
	// backwards (rework) and onto itself.
	open := []string{model.StatusPending, model.StatusInReview, model.StatusApproved, model.StatusDone}
	all := append([]string{model.StatusRejected}, open...)

	for _, from := range open {
		for _, to := range all {
			assert.NoError(t, CanTransition(from, to), "%s -> %s should be allowed", from, to)
		}
	}
}

func TestCanTransition_RejectedIsTerminal(t *testing.T) {
	for _, to := range []string{model.StatusPending, model.StatusInReview, model.StatusApproved, model.StatusDone} {
		err := CanTransition(model.StatusRejected, to)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestCanTransition_UnknownTarget(t *testing.T) {
	err := CanTransition(model.StatusPending, "ARCHIVED")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompletingStatus(t *testing.T) {
	// Validations complete at sign-off, everything else at delivery.
	assert.Equal(t, model.StatusApproved, CompletingStatus(model.ReqTypeBudgetValidation))
	assert.Equal(t, model.StatusApproved, CompletingStatus(model.ReqTypeFinancialValidation))
	assert.Equal(t, model.StatusDone, CompletingStatus(model.ReqTypeMaterialPurchase))
	assert.Equal(t, model.StatusDone, CompletingStatus(model.ReqTypePaymentAuthorization))
	assert.Equal(t, model.StatusDone, CompletingStatus(model.ReqTypeGeneric))
}

func TestControlPoint(t *testing.T) {
	dept, ok := ControlPoint(model.ReqTypeBudgetValidation)
	require.True(t, ok)
	assert.Equal(t, model.DeptEngineering, dept)

	dept, ok = ControlPoint(model.ReqTypeFinancialValidation)
	require.True(t, ok)
	assert.Equal(t, model.DeptFinance, dept)

	_, ok = ControlPoint(model.ReqTypeGeneric)
	assert.False(t, ok)
	_, ok = ControlPoint(model.ReqTypeMaterialPurchase)
	assert.False(t, ok)
}
