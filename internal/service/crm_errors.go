package service

import (
	"errors"
	"fmt"

	"github.com/GTDGit/cpq_api/internal/utils"
	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

// classifyRemoteErr tags a CRM client error with ErrRemoteRejected when HubSpot
// answered with an application error and ErrRemoteUnavailable otherwise.
// The client error stays in the chain.
func classifyRemoteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if hubspot.IsAPIError(err) {
		return fmt.Errorf("%s: %w: %w", op, utils.ErrRemoteRejected, err)
	}
	return fmt.Errorf("%s: %w: %w", op, utils.ErrRemoteUnavailable, err)
}

// rejectedBatch turns the per-item errors of a 207 batch response into an error.
func rejectedBatch(op string, errs []hubspot.BatchItemError) error {
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", op, utils.ErrRemoteRejected)
	}
	first := errs[0]
	return fmt.Errorf("%s: %w: %d errors, first %s: %s", op, utils.ErrRemoteRejected, len(errs), first.Category, first.Message)
}

// errorCode returns the API error code for a classified error.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, utils.ErrRemoteRejected):
		return utils.ErrRemoteRejected.Error()
	case errors.Is(err, utils.ErrRemoteUnavailable):
		return utils.ErrRemoteUnavailable.Error()
	default:
		return "INTERNAL_ERROR"
	}
}
