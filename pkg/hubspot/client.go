package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the HubSpot API base URL.
	DefaultBaseURL = "https://api.hubapi.com"
	// DefaultTokenEnv is the environment variable holding the private app token.
	DefaultTokenEnv = "PRIVATE_APP_ACCESS_TOKEN"
)

// Config holds HubSpot API client configuration.
type Config struct {
	BaseURL   string
	TokenEnv  string        // environment variable read on every request
	Timeout   time.Duration // zero means 30s
	RateLimit float64       // requests per second, zero disables pacing
	RateBurst int
	PageSize  int // GraphQL page size
}

// Client is a HubSpot CRM API client authenticated with a private app bearer token.
type Client struct {
	httpClient *http.Client
	config     Config
	token      func() string
	limiter    *rate.Limiter
	debug      bool
}

// NewClient creates a new HubSpot client. The bearer token is not captured here;
// it is looked up from the environment each time a request is made.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if config.TokenEnv == "" {
		config.TokenEnv = DefaultTokenEnv
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.PageSize <= 0 {
		config.PageSize = 100
	}

	client := &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		debug:      os.Getenv("ENV") == "development",
	}
	tokenEnv := config.TokenEnv
	client.token = func() string { return os.Getenv(tokenEnv) }

	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst <= 0 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}
	return client
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// doRequest performs a JSON request against the HubSpot API and decodes the
// response into result. HTTP statuses >= 400 are returned as *APIError,
// network failures as *TransportError.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	url := c.config.BaseURL + path

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: method + " " + path, Err: err}
		}
	}

	if c.debug {
		ev := log.Debug().Str("method", method).Str("endpoint", url)
		if bodyBytes != nil {
			ev = ev.RawJSON("request", bodyBytes)
		}
		ev.Msg("[HUBSPOT] Outgoing request")
	}

	var reader io.Reader
	if bodyBytes != nil {
		reader = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bodyBytes != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if c.debug {
		ev := log.Debug().Str("endpoint", path).Int("status_code", resp.StatusCode)
		if json.Valid(respBody) {
			ev = ev.RawJSON("response", respBody)
		}
		ev.Msg("[HUBSPOT] Incoming response")
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Category:   CategoryInvalidResponse,
			Message:    "failed to decode response: " + err.Error(),
		}
	}
	return nil
}
