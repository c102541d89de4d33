package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/cpq_api/internal/service"
	"github.com/GTDGit/cpq_api/internal/utils"
)

// CatalogHandler serves the tiered product catalog.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetTiers handles GET /v1/products/tiers
// ?refresh=true bypasses the cache.
func (h *CatalogHandler) GetTiers(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))

	fetch := h.catalogService.FetchTieredProducts
	if refresh {
		fetch = h.catalogService.Refresh
	}

	items, err := fetch(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}

	utils.Success(c, 200, "Tiered products retrieved successfully", gin.H{
		"tiers": service.GroupByTier(items),
	})
}
