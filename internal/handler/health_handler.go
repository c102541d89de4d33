package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/cpq_api/internal/cache"
	"github.com/GTDGit/cpq_api/internal/service"
	"github.com/GTDGit/cpq_api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	portal *service.PortalService
	redis  *cache.RedisClient
}

// NewHealthHandler creates a new HealthHandler. redis may be nil.
func NewHealthHandler(portal *service.PortalService, redis *cache.RedisClient) *HealthHandler {
	return &HealthHandler{portal: portal, redis: redis}
}

// GetHealth responds with service, HubSpot and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	hubspotStatus := "connected"
	portalState := ""
	status, err := h.portal.Status(ctx)
	if err != nil {
		hubspotStatus = "disconnected"
	} else {
		portalState = string(status.State)
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "disconnected"
		}
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"hubspot": gin.H{
			"status": hubspotStatus,
			"portal": portalState,
		},
		"redis": gin.H{
			"status": redisStatus,
		},
	})
}
