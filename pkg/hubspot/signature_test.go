package hubspot

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignatureV3(t *testing.T) {
	const (
		secret = "client-secret"
		method = "POST"
		uri    = "https://cpq.example.com/v1/deals/42/bundle"
	)
	body := []byte(`{"tier":"standard"}`)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	good := GenerateSignatureV3(secret, method, uri, body, ts)

	tests := []struct {
		name      string
		body      []byte
		timestamp string
		signature string
		now       time.Time
		wantErr   error
	}{
		{name: "valid", body: body, timestamp: ts, signature: good, now: now},
		{name: "valid at edge of window", body: body, timestamp: ts, signature: good, now: now.Add(MaxSignatureAge)},
		{name: "missing signature", body: body, timestamp: ts, now: now, wantErr: ErrMissingSignature},
		{name: "missing timestamp", body: body, signature: good, now: now, wantErr: ErrMissingSignature},
		{name: "stale", body: body, timestamp: ts, signature: good, now: now.Add(MaxSignatureAge + time.Second), wantErr: ErrStaleSignature},
		{name: "future", body: body, timestamp: ts, signature: good, now: now.Add(-MaxSignatureAge - time.Second), wantErr: ErrStaleSignature},
		{name: "garbage timestamp", body: body, timestamp: "yesterday", signature: good, now: now, wantErr: ErrStaleSignature},
		{name: "tampered body", body: []byte(`{"tier":"enterprise"}`), timestamp: ts, signature: good, now: now, wantErr: ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignatureV3(secret, method, uri, tt.body, tt.timestamp, tt.signature, tt.now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
