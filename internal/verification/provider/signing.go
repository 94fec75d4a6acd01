package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"
	"time"
)

// Request signing headers.
const (
	HeaderAppToken  = "X-App-Token"
	HeaderAccessTs  = "X-App-Access-Ts"
	HeaderAccessSig = "X-App-Access-Sig"

	HeaderPayloadDigest    = "X-Payload-Digest"
	HeaderPayloadDigestAlg = "X-Payload-Digest-Alg"
)

// Sign returns the request signature: hex HMAC-SHA256 over
// ts + METHOD + path(with query) + body.
func Sign(secret string, ts time.Time, method, pathWithQuery string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	mac.Write([]byte(strings.ToUpper(method)))
	mac.Write([]byte(pathWithQuery))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// WebhookVerifier checks X-Payload-Digest on provider callbacks.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Configured reports whether a webhook secret is set. Without one every
// callback is rejected.
func (v *WebhookVerifier) Configured() bool {
	return v != nil && len(v.secret) > 0
}

// Verify compares the digest in constant time. alg may be empty, in which
// case SHA-256 is assumed.
func (v *WebhookVerifier) Verify(body []byte, digest, alg string) error {
	if !v.Configured() || digest == "" {
		return ErrInvalidSignature
	}
	newHash, ok := digestAlgorithm(alg)
	if !ok {
		return ErrInvalidSignature
	}
	expected := Digest(v.secret, body, newHash)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(digest))) {
		return ErrInvalidSignature
	}
	return nil
}

// Digest returns the hex HMAC of body.
func Digest(secret, body []byte, newHash func() hash.Hash) string {
	mac := hmac.New(newHash, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func digestAlgorithm(alg string) (func() hash.Hash, bool) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HMAC_SHA256_HEX":
		return sha256.New, true
	case "HMAC_SHA512_HEX":
		return sha512.New, true
	default:
		return nil, false
	}
}
