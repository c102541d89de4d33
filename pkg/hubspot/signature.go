package hubspot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"time"
)

// Headers HubSpot attaches to requests it sends to app backends.
const (
	HeaderSignatureV3      = "X-HubSpot-Signature-v3"
	HeaderRequestTimestamp = "X-HubSpot-Request-Timestamp"
)

// MaxSignatureAge is how old a signed request may be before it is rejected.
const MaxSignatureAge = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing signature headers")
	ErrStaleSignature   = errors.New("request timestamp outside allowed window")
	ErrInvalidSignature = errors.New("signature mismatch")
)

// GenerateSignatureV3 computes base64(HMAC-SHA256(secret, method+uri+body+timestamp)).
func GenerateSignatureV3(secret, method, uri string, body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(method))
	mac.Write([]byte(uri))
	mac.Write(body)
	mac.Write([]byte(timestamp))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignatureV3 checks a v3 request signature. timestamp is the value of
// the X-HubSpot-Request-Timestamp header in Unix milliseconds.
func VerifySignatureV3(secret, method, uri string, body []byte, timestamp, signature string, now time.Time) error {
	if signature == "" || timestamp == "" {
		return ErrMissingSignature
	}

	ms, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleSignature
	}
	age := now.Sub(time.UnixMilli(ms))
	if age > MaxSignatureAge || age < -MaxSignatureAge {
		return ErrStaleSignature
	}

	expected := GenerateSignatureV3(secret, method, uri, body, timestamp)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}
