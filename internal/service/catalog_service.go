package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/cpq_api/internal/cache"
	"github.com/GTDGit/cpq_api/internal/models"
	"github.com/GTDGit/cpq_api/internal/utils"
	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

// ProductQuerier lists every product that has a tier set.
type ProductQuerier interface {
	ListTieredProducts(ctx context.Context) ([]hubspot.TieredProduct, error)
}

// CatalogService reads the tiered product catalog from the CRM, optionally
// through a Redis cache.
type CatalogService struct {
	crm   ProductQuerier
	cache *cache.CatalogCache
}

// NewCatalogService constructs a CatalogService. catalogCache may be nil.
func NewCatalogService(crm ProductQuerier, catalogCache *cache.CatalogCache) *CatalogService {
	return &CatalogService{crm: crm, cache: catalogCache}
}

// Selection is a requested product and quantity.
type Selection struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"gte=0"`
}

// FetchTieredProducts returns the tiered catalog in fetch order, serving it
// from cache when possible.
func (s *CatalogService) FetchTieredProducts(ctx context.Context) ([]models.CatalogItem, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx)
		if err == nil {
			return data.Items, nil
		}
		if !errors.Is(err, utils.ErrCacheMiss) {
			log.Warn().Err(err).Msg("catalog cache read failed, falling back to CRM")
		}
	}
	return s.Refresh(ctx)
}

// Refresh fetches the catalog from the CRM and rewrites the cache.
func (s *CatalogService) Refresh(ctx context.Context) ([]models.CatalogItem, error) {
	products, err := s.crm.ListTieredProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch tiered products")
		return nil, classifyRemoteErr("fetch tiered products", err)
	}

	items := make([]models.CatalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, toCatalogItem(p))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, items); err != nil {
			log.Warn().Err(err).Msg("failed to cache catalog")
		}
	}
	return items, nil
}

// Invalidate drops the cached catalog, if any.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate catalog cache")
	}
}

// Resolve looks up each selection in the catalog and returns items carrying
// the requested quantity, in selection order.
func (s *CatalogService) Resolve(ctx context.Context, selections []Selection) ([]models.CatalogItem, error) {
	catalog, err := s.FetchTieredProducts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.CatalogItem, len(catalog))
	for _, it := range catalog {
		byID[it.ID] = it
	}

	items := make([]models.CatalogItem, 0, len(selections))
	for _, sel := range selections {
		it, ok := byID[sel.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", sel.ProductID, utils.ErrUnknownProduct)
		}
		items = append(items, it.WithQuantity(sel.Quantity))
	}
	return items, nil
}

// toCatalogItem adapts a GraphQL product node. Prices are kept to cents and
// a missing default quantity counts as zero.
func toCatalogItem(p hubspot.TieredProduct) models.CatalogItem {
	price := decimal.Zero
	if p.PriceUSD.Valid {
		price = p.PriceUSD.Decimal.Round(2)
	}

	var qty int64
	if p.DefaultQuantity.Valid {
		qty = p.DefaultQuantity.Decimal.IntPart()
	}
	if qty < 0 {
		qty = 0
	}

	return models.CatalogItem{
		ID:               p.ID.String(),
		Name:             p.Name,
		UnitPrice:        price,
		DefaultQuantity:  qty,
		SelectedQuantity: qty,
		Tier:             models.Tier(strings.ToLower(strings.TrimSpace(string(p.Tier)))),
	}
}
