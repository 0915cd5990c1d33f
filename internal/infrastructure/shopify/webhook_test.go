package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier(t *testing.T) {
	v := NewWebhookVerifier("app-secret")
	payload := []byte(`{"domain":"demo.myshopify.com"}`)

	assert.NoError(t, v.Verify(payload, signPayload("app-secret", payload)))
	assert.Error(t, v.Verify(payload, signPayload("wrong-secret", payload)))
	assert.Error(t, v.Verify(payload, ""))
	assert.Error(t, v.Verify([]byte("tampered"), signPayload("app-secret", payload)))
}
