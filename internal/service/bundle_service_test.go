package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/cpq_api/internal/models"
	"github.com/GTDGit/cpq_api/internal/utils"
	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

func standardBundle() []models.CatalogItem {
	return []models.CatalogItem{
		item("101", "5000.00", 1, models.TierStandard),
		item("102", "3000.00", 1, models.TierStandard),
		item("103", "10.00", 500, models.TierStandard),
	}
}

func TestBundleService_SubmitBundle(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["D1"] = "1000.00"
	svc := NewBundleService(crm, 2)

	items := standardBundle()
	result, err := svc.SubmitBundle(context.Background(), BundleRequest{
		DealID: "D1",
		Items:  items,
		Total:  ComputeTotal(items),
	})
	require.NoError(t, err)

	assert.Equal(t, len(items), crm.lineItemCalls)
	assert.Len(t, crm.lineItems, len(items))
	assert.Equal(t, 1, crm.updateDealCalls)
	assert.Equal(t, "14000.00", crm.lastUpdateAmount)

	require.NotNil(t, result.Deal)
	assert.Equal(t, "D1", result.Deal.ID)
	assert.True(t, result.Deal.Amount.Equal(decimal.RequireFromString("14000")))
	assert.Equal(t, 0, result.Failed)
	for i, li := range result.LineItems {
		assert.True(t, li.OK())
		assert.NotEmpty(t, li.LineItemID)
		assert.Equal(t, items[i].ID, li.ProductID, "results keep item order")
	}
	for _, li := range crm.lineItems {
		assert.Equal(t, "D1", li.DealID)
	}
}

func TestBundleService_SubmitBundleEmptyDealAmount(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["D2"] = ""
	svc := NewBundleService(crm, 3)

	items := []models.CatalogItem{item("201", "7.00", 1000, models.TierEnterprise)}
	_, err := svc.SubmitBundle(context.Background(), BundleRequest{DealID: "D2", Items: items, Total: ComputeTotal(items)})
	require.NoError(t, err)

	assert.Equal(t, "7000.00", crm.lastUpdateAmount)
}

func TestBundleService_NegativeQuantityClampedBeforeCreate(t *testing.T) {
	tests := []struct {
		name       string
		qty        int64
		total      string
		wantQty    int64
		wantAmount string
	}{
		{name: "negative is created as zero", qty: -5, total: "0", wantQty: 0, wantAmount: "1000.00"},
		{name: "zero stays zero", qty: 0, total: "0", wantQty: 0, wantAmount: "1000.00"},
		{name: "positive is unchanged", qty: 3, total: "30.00", wantQty: 3, wantAmount: "1030.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := newFakeCRM()
			crm.deals["D1"] = "1000.00"
			svc := NewBundleService(crm, 1)

			items := []models.CatalogItem{item("103", "10.00", 500, models.TierStandard)}
			items[0].SelectedQuantity = tt.qty

			result, err := svc.SubmitBundle(context.Background(), BundleRequest{
				DealID: "D1",
				Items:  items,
				Total:  decimal.RequireFromString(tt.total),
			})
			require.NoError(t, err)

			require.Len(t, crm.lineItems, 1)
			assert.Equal(t, tt.wantQty, crm.lineItems[0].Quantity)
			assert.Equal(t, tt.wantQty, result.LineItems[0].Quantity)
			assert.Equal(t, tt.wantAmount, crm.lastUpdateAmount)
			assert.Equal(t, tt.qty, items[0].SelectedQuantity, "caller's items are not mutated")
		})
	}
}

func TestBundleService_PartialFailureLeavesDealUntouched(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["D1"] = "1000.00"
	crm.lineItemErr["102"] = &hubspot.APIError{
		StatusCode: http.StatusBadRequest,
		Category:   hubspot.CategoryValidationError,
		Message:    "Property values were not valid",
	}
	svc := NewBundleService(crm, 3)

	items := standardBundle()
	result, err := svc.SubmitBundle(context.Background(), BundleRequest{DealID: "D1", Items: items, Total: ComputeTotal(items)})

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrPartialBatchFailure)
	assert.ErrorIs(t, err, utils.ErrRemoteRejected)
	var apiErr *hubspot.APIError
	assert.ErrorAs(t, err, &apiErr)

	require.NotNil(t, result)
	assert.Nil(t, result.Deal)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"102"}, result.FailedProductIDs())
	assert.Equal(t, utils.ErrRemoteRejected.Error(), result.LineItems[1].ErrorCode)

	assert.Equal(t, 3, crm.lineItemCalls, "remaining creates are not cancelled")
	assert.Len(t, crm.lineItems, 2)
	assert.Equal(t, 0, crm.updateDealCalls)
	assert.Equal(t, "1000.00", crm.deals["D1"])
}

func TestBundleService_TransportFailureIsUnavailable(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["D1"] = "0"
	crm.lineItemErr["101"] = &hubspot.TransportError{Op: "POST /crm/v3/objects/line_items", Err: errors.New("connection reset")}
	svc := NewBundleService(crm, 1)

	items := standardBundle()
	result, err := svc.SubmitBundle(context.Background(), BundleRequest{DealID: "D1", Items: items, Total: ComputeTotal(items)})

	assert.ErrorIs(t, err, utils.ErrPartialBatchFailure)
	assert.ErrorIs(t, err, utils.ErrRemoteUnavailable)
	assert.Equal(t, utils.ErrRemoteUnavailable.Error(), result.LineItems[0].ErrorCode)
	assert.Equal(t, 0, crm.updateDealCalls)
}

func TestBundleService_Validation(t *testing.T) {
	items := standardBundle()

	tests := []struct {
		name    string
		req     BundleRequest
		wantErr error
	}{
		{name: "missing deal", req: BundleRequest{Items: items, Total: ComputeTotal(items)}, wantErr: utils.ErrMissingDealID},
		{name: "empty bundle", req: BundleRequest{DealID: "D1", Total: decimal.Zero}, wantErr: utils.ErrEmptyBundle},
		{name: "total mismatch", req: BundleRequest{DealID: "D1", Items: items, Total: decimal.RequireFromString("12999.99")}, wantErr: utils.ErrTotalMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := newFakeCRM()
			crm.deals["D1"] = "0"

			_, err := NewBundleService(crm, 3).SubmitBundle(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, crm.lineItemCalls)
			assert.Equal(t, 0, crm.updateDealCalls)
		})
	}
}

func TestBundleService_UsesFreshDealAmount(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["D1"] = "2500.00"
	svc := NewBundleService(crm, 3)

	stale := decimal.RequireFromString("1000")
	items := standardBundle()
	result, err := svc.SubmitBundle(context.Background(), BundleRequest{
		DealID:      "D1",
		Items:       items,
		Total:       ComputeTotal(items),
		KnownAmount: &stale,
	})
	require.NoError(t, err)

	assert.Equal(t, "15500.00", crm.lastUpdateAmount)
	assert.Equal(t, "15500.00", result.Deal.Amount.StringFixed(2))
}

func TestBundleService_DealUpdateFailure(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*fakeCRM)
		wantErr error
	}{
		{
			name:    "unknown deal",
			setup:   func(f *fakeCRM) {},
			wantErr: utils.ErrRemoteRejected,
		},
		{
			name: "update unreachable",
			setup: func(f *fakeCRM) {
				f.deals["D404"] = "10"
				f.updateDealErr = &hubspot.TransportError{Op: "PATCH", Err: errors.New("timeout")}
			},
			wantErr: utils.ErrRemoteUnavailable,
		},
		{
			name: "garbage amount",
			setup: func(f *fakeCRM) {
				f.deals["D404"] = "abc"
			},
			wantErr: utils.ErrRemoteRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := newFakeCRM()
			tt.setup(crm)
			items := standardBundle()

			result, err := NewBundleService(crm, 3).SubmitBundle(context.Background(), BundleRequest{DealID: "D404", Items: items, Total: ComputeTotal(items)})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, utils.ErrPartialBatchFailure)
			require.NotNil(t, result)
			assert.Nil(t, result.Deal)
			assert.Len(t, crm.lineItems, 3)
		})
	}
}
