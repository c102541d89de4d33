package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/cpq_api/internal/utils"
)

// respondError maps service errors onto the response envelope. data, when
// non-nil, is returned alongside the error.
func respondError(c *gin.Context, err error, data interface{}) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Str("code", code).Msg("request failed")
	}
	utils.ErrorWithData(c, status, code, message, data)
}

func classify(err error) (int, string, string) {
	switch {
	// checked first: a partial failure also wraps the kind of its first failure
	case errors.Is(err, utils.ErrPartialBatchFailure):
		return http.StatusBadGateway, "PARTIAL_BATCH_FAILURE", "Some line items could not be created; the deal was not updated"
	case errors.Is(err, utils.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable, "CRM_UNAVAILABLE", "HubSpot could not be reached"
	case errors.Is(err, utils.ErrRemoteRejected):
		return http.StatusBadGateway, "CRM_REJECTED", "HubSpot rejected the request"
	case errors.Is(err, utils.ErrUnknownProduct):
		return http.StatusBadRequest, "UNKNOWN_PRODUCT", "Product is not in the tiered catalog"
	case errors.Is(err, utils.ErrTotalMismatch):
		return http.StatusBadRequest, "TOTAL_MISMATCH", "Total does not match catalog prices"
	case errors.Is(err, utils.ErrEmptyBundle):
		return http.StatusBadRequest, "EMPTY_BUNDLE", "Bundle has no items"
	case errors.Is(err, utils.ErrMissingDealID):
		return http.StatusBadRequest, "MISSING_FIELD", "dealId is required"
	case errors.Is(err, utils.ErrInvalidTier):
		return http.StatusBadRequest, "INVALID_TIER", "Tier must be 'standard' or 'enterprise'"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
