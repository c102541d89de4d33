package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/cpq_api/internal/utils"
	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

// SignatureMiddleware authenticates requests proxied by HubSpot using the v3
// request signature.
type SignatureMiddleware struct {
	clientSecret string
	rateLimiter  *InvalidAuthRateLimiter
	now          func() time.Time
}

// NewSignatureMiddleware constructs a SignatureMiddleware. An empty secret
// disables the check.
func NewSignatureMiddleware(clientSecret string) *SignatureMiddleware {
	return &SignatureMiddleware{
		clientSecret: clientSecret,
		rateLimiter:  NewInvalidAuthRateLimiter(),
		now:          time.Now,
	}
}

// Handle returns a Gin middleware function that enforces the signature.
func (m *SignatureMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.clientSecret == "" {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				utils.Error(c, 400, "INVALID_REQUEST", "Failed to read request body")
				c.Abort()
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		err := hubspot.VerifySignatureV3(
			m.clientSecret,
			c.Request.Method,
			requestURI(c),
			body,
			c.GetHeader(hubspot.HeaderRequestTimestamp),
			c.GetHeader(hubspot.HeaderSignatureV3),
			m.now(),
		)
		if err != nil {
			log.Warn().Err(err).Str("ip", c.ClientIP()).Str("path", c.Request.URL.Path).Msg("rejected unsigned request")
			m.handleAuthError(c, "INVALID_SIGNATURE", "Invalid HubSpot request signature")
			return
		}

		c.Next()
	}
}

func (m *SignatureMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

// requestURI rebuilds the absolute URL HubSpot signed.
func requestURI(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
