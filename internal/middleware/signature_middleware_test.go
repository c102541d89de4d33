package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/cpq_api/pkg/hubspot"
)

func newSignedRouter(secret string, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewSignatureMiddleware(secret)
	mw.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/v1/bundles/preview", mw.Handle(), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})
	return r
}

func TestSignatureMiddleware(t *testing.T) {
	const secret = "s3cret"
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	body := `{"tier":"standard"}`
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	sig := hubspot.GenerateSignatureV3(secret, http.MethodPost, "http://cpq.example.com/v1/bundles/preview?portalId=1", []byte(body), ts)

	tests := []struct {
		name       string
		secret     string
		signature  string
		wantStatus int
	}{
		{name: "valid signature", secret: secret, signature: sig, wantStatus: http.StatusOK},
		{name: "bad signature", secret: secret, signature: "AAAA", wantStatus: http.StatusUnauthorized},
		{name: "check disabled", secret: "", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newSignedRouter(tt.secret, now)

			req := httptest.NewRequest(http.MethodPost, "http://cpq.example.com/v1/bundles/preview?portalId=1", strings.NewReader(body))
			req.Header.Set(hubspot.HeaderRequestTimestamp, ts)
			if tt.signature != "" {
				req.Header.Set(hubspot.HeaderSignatureV3, tt.signature)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, body, w.Body.String(), "body is restored for the handler")
			}
		})
	}
}

func TestSignatureMiddleware_RateLimitsInvalidAttempts(t *testing.T) {
	router := newSignedRouter("s3cret", time.Now())

	var last int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/bundles/preview", strings.NewReader("{}"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		last = w.Code
		if i < 5 {
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
