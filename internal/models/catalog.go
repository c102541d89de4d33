package models

import "github.com/shopspring/decimal"

// Tier enumerates the pricing packages a product can belong to.
type Tier string

const (
	TierStandard   Tier = "standard"
	TierEnterprise Tier = "enterprise"
)

// Tiers lists the known tiers in display order.
var Tiers = []Tier{TierStandard, TierEnterprise}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t == TierStandard || t == TierEnterprise
}

// CatalogItem is a tiered product as fetched from the CRM.
// SelectedQuantity starts equal to DefaultQuantity and is the only field a
// user may change.
type CatalogItem struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	DefaultQuantity  int64           `json:"defaultQuantity"`
	SelectedQuantity int64           `json:"selectedQuantity"`
	Tier             Tier            `json:"tier"`
}

// WithQuantity returns a copy of the item with the selected quantity set,
// clamped to zero.
func (i CatalogItem) WithQuantity(qty int64) CatalogItem {
	if qty < 0 {
		qty = 0
	}
	i.SelectedQuantity = qty
	return i
}

// TierBundle groups the items of one tier together with their total.
type TierBundle struct {
	Tier  Tier            `json:"tier"`
	Items []CatalogItem   `json:"items"`
	Total decimal.Decimal `json:"total"`
}
