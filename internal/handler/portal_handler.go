package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/cpq_api/internal/service"
	"github.com/GTDGit/cpq_api/internal/utils"
)

// PortalHandler exposes the portal configuration check and setup.
type PortalHandler struct {
	portalService *service.PortalService
}

// NewPortalHandler constructs a PortalHandler.
func NewPortalHandler(portalService *service.PortalService) *PortalHandler {
	return &PortalHandler{portalService: portalService}
}

// GetStatus handles GET /v1/portal/status
func (h *PortalHandler) GetStatus(c *gin.Context) {
	status, err := h.portalService.Status(c.Request.Context())
	if err != nil {
		respondError(c, err, status)
		return
	}

	message := "Portal is configured"
	if !status.Configured() {
		message = "Portal is not configured"
	}
	utils.Success(c, 200, message, status)
}

// Setup handles POST /v1/portal/setup
func (h *PortalHandler) Setup(c *gin.Context) {
	result, err := h.portalService.Provision(c.Request.Context())
	if err != nil {
		// whatever was created before the failure is reported too
		respondError(c, err, result)
		return
	}

	code := 201
	if len(result.CreatedProperties) == 0 && len(result.CreatedProducts) == 0 {
		code = 200
	}
	utils.Success(c, code, "Portal setup complete", result)
}
