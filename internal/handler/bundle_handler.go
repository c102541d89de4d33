package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/cpq_api/internal/models"
	"github.com/GTDGit/cpq_api/internal/selection"
	"github.com/GTDGit/cpq_api/internal/service"
	"github.com/GTDGit/cpq_api/internal/utils"
)

// BundleHandler previews bundles and attaches them to deals.
type BundleHandler struct {
	catalogService *service.CatalogService
	bundleService  *service.BundleService
}

// NewBundleHandler constructs a BundleHandler.
func NewBundleHandler(catalogService *service.CatalogService, bundleService *service.BundleService) *BundleHandler {
	return &BundleHandler{
		catalogService: catalogService,
		bundleService:  bundleService,
	}
}

// PreviewRequest is the body of POST /v1/bundles/preview.
type PreviewRequest struct {
	Tier       models.Tier         `json:"tier" binding:"required,tier"`
	Quantities []service.Selection `json:"quantities" binding:"dive"`
}

// PreviewResponse is the bundle a selection currently describes.
type PreviewResponse struct {
	Tier      models.Tier          `json:"tier"`
	Items     []models.CatalogItem `json:"items"`
	Total     decimal.Decimal      `json:"total"`
	CanSubmit bool                 `json:"canSubmit"`
}

// SubmitRequest is the body of POST /v1/deals/:dealId/bundle.
type SubmitRequest struct {
	Tier        models.Tier         `json:"tier" binding:"required,tier"`
	Items       []service.Selection `json:"items" binding:"required,min=1,dive"`
	Total       *decimal.Decimal    `json:"total"`
	KnownAmount *decimal.Decimal    `json:"knownAmount"`
}

// Preview handles POST /v1/bundles/preview
func (h *BundleHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	state, err := h.selectionFor(c.Request.Context(), req.Tier, req.Quantities)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	bundle := state.Bundle()
	utils.Success(c, 200, "Bundle preview", PreviewResponse{
		Tier:      bundle.Tier,
		Items:     bundle.Items,
		Total:     bundle.Total,
		CanSubmit: state.CanSubmit(),
	})
}

// Submit handles POST /v1/deals/:dealId/bundle
func (h *BundleHandler) Submit(c *gin.Context) {
	dealID := c.Param("dealId")

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	items, err := h.catalogService.Resolve(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	for _, it := range items {
		if it.Tier != req.Tier {
			respondError(c, fmt.Errorf("product %s is %s: %w", it.ID, it.Tier, utils.ErrInvalidTier), nil)
			return
		}
	}

	// prices come from the catalog; a client total is only checked
	total := service.ComputeTotal(items)
	if req.Total != nil && !req.Total.Equal(total) {
		utils.ErrorWithData(c, 400, "TOTAL_MISMATCH", "Total does not match catalog prices", gin.H{
			"expectedTotal": total,
		})
		return
	}

	result, err := h.bundleService.SubmitBundle(c.Request.Context(), service.BundleRequest{
		DealID:      dealID,
		Items:       items,
		Total:       total,
		KnownAmount: req.KnownAmount,
	})
	if err != nil {
		// a nil *BundleResult must not reach the envelope as a typed nil
		var data interface{}
		if result != nil {
			data = result
		}
		respondError(c, err, data)
		return
	}

	utils.Success(c, 201, "Bundle added to deal", result)
}

// selectionFor replays a selection against the current catalog.
func (h *BundleHandler) selectionFor(ctx context.Context, tier models.Tier, quantities []service.Selection) (selection.State, error) {
	catalog, err := h.catalogService.FetchTieredProducts(ctx)
	if err != nil {
		return selection.State{}, err
	}

	known := make(map[string]bool, len(catalog))
	for _, it := range catalog {
		known[it.ID] = true
	}

	events := []selection.Event{
		selection.ConfigChecked{Configured: true},
		selection.LoadSucceeded{Items: catalog},
		selection.TierSelected{Tier: tier},
	}
	for _, q := range quantities {
		if !known[q.ProductID] {
			return selection.State{}, fmt.Errorf("product %s: %w", q.ProductID, utils.ErrUnknownProduct)
		}
		events = append(events, selection.QuantityChanged{ProductID: q.ProductID, Quantity: q.Quantity})
	}
	return selection.Apply(selection.Initial(), events...), nil
}
