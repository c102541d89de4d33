package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal is the CRM sales opportunity a bundle is attached to.
type Deal struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// LineItemResult is the outcome of creating one line item of a bundle.
type LineItemResult struct {
	ProductID  string `json:"productId"`
	Quantity   int64  `json:"quantity"`
	LineItemID string `json:"lineItemId,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorCode  string `json:"errorCode,omitempty"`
}

// OK reports whether the line item was created.
func (r LineItemResult) OK() bool {
	return r.Error == ""
}

// BundleResult is returned by a bundle submission. Deal is nil when the deal
// was not updated because some line items failed.
type BundleResult struct {
	DealID    string           `json:"dealId"`
	Deal      *Deal            `json:"deal,omitempty"`
	Total     decimal.Decimal  `json:"total"`
	LineItems []LineItemResult `json:"lineItems"`
	Failed    int              `json:"failed"`
}

// FailedProductIDs returns the products whose line item could not be created.
func (r *BundleResult) FailedProductIDs() []string {
	var ids []string
	for _, li := range r.LineItems {
		if !li.OK() {
			ids = append(ids, li.ProductID)
		}
	}
	return ids
}
