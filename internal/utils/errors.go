package utils

import "errors"

// Common application errors used across services.
var (
	ErrRemoteUnavailable   = errors.New("CRM_UNAVAILABLE")
	ErrRemoteRejected      = errors.New("CRM_REJECTED")
	ErrPartialBatchFailure = errors.New("PARTIAL_BATCH_FAILURE")

	ErrEmptyBundle    = errors.New("EMPTY_BUNDLE")
	ErrMissingDealID  = errors.New("MISSING_DEAL_ID")
	ErrUnknownProduct = errors.New("UNKNOWN_PRODUCT")
	ErrTotalMismatch  = errors.New("TOTAL_MISMATCH")
	ErrInvalidTier    = errors.New("INVALID_TIER")
	ErrCacheMiss      = errors.New("CACHE_MISS")
)
