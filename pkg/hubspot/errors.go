package hubspot

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories returned by HubSpot in the "category" field.
// CategoryInvalidResponse is set locally when a 2xx body cannot be decoded.
const (
	CategoryObjectNotFound   = "OBJECT_NOT_FOUND"
	CategoryValidationError  = "VALIDATION_ERROR"
	CategoryObjectExists     = "OBJECT_ALREADY_EXISTS"
	CategoryRateLimits       = "RATE_LIMITS"
	CategoryInvalidAuth      = "INVALID_AUTHENTICATION"
	CategoryMissingScopes    = "MISSING_SCOPES"
	CategoryGraphQLExecution = "GRAPHQL_EXECUTION"
	CategoryInvalidResponse  = "INVALID_RESPONSE"
)

// APIError is an application-level error reported by HubSpot.
type APIError struct {
	StatusCode    int              `json:"-"`
	Status        string           `json:"status"`
	Message       string           `json:"message"`
	CorrelationID string           `json:"correlationId"`
	Category      string           `json:"category"`
	Errors        []BatchItemError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("hubspot api error %d %s: %s", e.StatusCode, e.Category, e.Message)
	}
	return fmt.Sprintf("hubspot api error %d: %s", e.StatusCode, e.Message)
}

// IsDuplicate reports whether the error means the object already exists.
func (e *APIError) IsDuplicate() bool {
	return e.StatusCode == http.StatusConflict || e.Category == CategoryObjectExists
}

// IsDuplicate reports whether the batch input failed because the object already exists.
func (e BatchItemError) IsDuplicate() bool {
	return e.Category == CategoryObjectExists
}

// TransportError wraps a network-level failure talking to HubSpot.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("hubspot request %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsAPIError reports whether err is (or wraps) an *APIError.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
