package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func dp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRequestMetaMerge_PatchWins(t *testing.T) {
	stored := RequestMeta{
		Supplier:     sp("Old supplier"),
		Cost:         dp("100"),
		DeliveryDate: sp("2026-01-01"),
	}

	merged := stored.Merge(RequestMeta{
		Supplier: sp("New supplier"),
		Cost:     dp("250.50"),
	})

	require.NotNil(t, merged.Supplier)
	assert.Equal(t, "New supplier", *merged.Supplier)
	assert.True(t, merged.Cost.Equal(decimal.RequireFromString("250.50")))

	// Absent fields are preserved
	require.NotNil(t, merged.DeliveryDate)
	assert.Equal(t, "2026-01-01", *merged.DeliveryDate)
}

func TestRequestMetaMerge_EmptyPatchIsNoop(t *testing.T) {
	stored := RequestMeta{
		Supplier:     sp("ACME"),
		Cost:         dp("4200"),
		Observations: sp("confirmed with vendor"),
		Attachments:  []Attachment{{ID: "a1", Name: "quote.pdf", URL: "/files/a1"}},
	}

	merged := stored.Merge(RequestMeta{})
	assert.Equal(t, stored, merged)
}

func TestRequestMetaMerge_Idempotent(t *testing.T) {
	stored := RequestMeta{Supplier: sp("ACME"), Cost: dp("4200")}
	patch := RequestMeta{Observations: sp("ok to proceed"), AdjustedValue: dp("3900")}

	once := stored.Merge(patch)
	twice := once.Merge(patch)
	assert.Equal(t, once, twice)
}

func TestRequestMetaMerge_AttachmentsReplacedWholesale(t *testing.T) {
	stored := RequestMeta{Attachments: []Attachment{{ID: "a1"}, {ID: "a2"}}}
	merged := stored.Merge(RequestMeta{Attachments: []Attachment{{ID: "b1"}}})
	require.Len(t, merged.Attachments, 1)
	assert.Equal(t, "b1", merged.Attachments[0].ID)
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidDepartment(DeptEngineering))
	assert.True(t, ValidDepartment(DeptCommercial))
	assert.False(t, ValidDepartment("MARKETING"))
	assert.False(t, ValidDepartment(""))

	assert.True(t, ValidRequestType(ReqTypeMaterialPurchase))
	assert.False(t, ValidRequestType("EXPENSE"))

	assert.True(t, ValidRequestStatus(StatusInReview))
	assert.False(t, ValidRequestStatus("ARCHIVED"))
}
