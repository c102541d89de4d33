package service

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/cpq_api/internal/models"
)

// LineTotal returns unit price × selected quantity for one item.
// Negative quantities count as zero.
func LineTotal(item models.CatalogItem) decimal.Decimal {
	qty := item.SelectedQuantity
	if qty < 0 {
		qty = 0
	}
	return item.UnitPrice.Mul(decimal.NewFromInt(qty))
}

// ComputeTotal sums the extended cost of every item. All arithmetic is done
// in decimal so currency totals do not drift.
func ComputeTotal(items []models.CatalogItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item))
	}
	return total
}

// GroupByTier partitions items into one bundle per known tier, in display
// order. Fetch order is preserved inside each bundle and items with an
// unknown tier are dropped.
func GroupByTier(items []models.CatalogItem) []models.TierBundle {
	bundles := make([]models.TierBundle, 0, len(models.Tiers))
	for _, tier := range models.Tiers {
		bundles = append(bundles, BundleForTier(items, tier))
	}
	return bundles
}

// BundleForTier returns the bundle of a single tier.
func BundleForTier(items []models.CatalogItem, tier models.Tier) models.TierBundle {
	selected := make([]models.CatalogItem, 0)
	for _, item := range items {
		if item.Tier == tier {
			selected = append(selected, item)
		}
	}
	return models.TierBundle{
		Tier:  tier,
		Items: selected,
		Total: ComputeTotal(selected),
	}
}
