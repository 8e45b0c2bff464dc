package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature checks a webhook delivery against the tenant's signing
// secret: base64(HMAC-SHA256(secret, body)) must equal the header value.
// The comparison is constant-time. It must run over the raw request bytes;
// re-serialized JSON will not match. Malformed or absent input is false,
// never an error.
func VerifySignature(body []byte, provided, secret string) bool {
	if provided == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	computed := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(computed), []byte(provided))
}

// Sign produces the signature Shopify would send for body. Used by tests
// and local tooling.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
