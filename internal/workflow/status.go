package workflow

import (
	"fmt"

	"backend/internal/model"
)

// The status machine is deliberately permissive: departments may move a
// request among PENDING, IN_REVIEW, APPROVED and DONE in either direction
// (e.g. pull an approved request back to PENDING for rework). Only REJECTED
// is terminal: nothing leaves it.

// IsClosed reports whether a status excludes the request from active
// department queues.
func IsClosed(status string) bool {
	return status == model.StatusDone || status == model.StatusRejected
}

// CanTransition validates a status movement under the permissive machine.
func CanTransition(from, to string) error {
	if !model.ValidRequestStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == model.StatusRejected {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	return nil
}

// CompletingStatus returns the status that counts as completion for the given
// request type. Validations complete at sign-off (APPROVED); operational
// requests complete at delivery (DONE).
func CompletingStatus(reqType string) string {
	switch reqType {
	case model.ReqTypeBudgetValidation, model.ReqTypeFinancialValidation:
		return model.StatusApproved
	default:
		return model.StatusDone
	}
}

// ControlPoint returns the department that gates sign-off for validation
// requests ("control point: engineering" / "control point: finance" in the
// dashboards). The second return is false for non-validation types.
func ControlPoint(reqType string) (string, bool) {
	switch reqType {
	case model.ReqTypeBudgetValidation:
		return model.DeptEngineering, true
	case model.ReqTypeFinancialValidation:
		return model.DeptFinance, true
	default:
		return "", false
	}
}
