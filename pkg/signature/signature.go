// Package signature implements HMAC-SHA256 webhook signature verification
// for the meeting-bot provider. The provider signs the raw request body and
// sends the digest as "sha256=<lowercase hex>" in the X-Signature header.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HeaderPrefix is the literal prefix the provider puts before the hex digest.
const HeaderPrefix = "sha256="

// Sign computes the signature header value for a payload.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return HeaderPrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature header against the raw, unparsed request body.
// It must be called on the exact bytes received: verifying a re-serialized
// form would let a semantically-equivalent re-encoding bypass the check.
//
// Returns false (never an error) on a missing secret, malformed header,
// hex-decoding failure or digest mismatch. The comparison is constant time.
func Verify(secret string, rawBody []byte, signatureHeader string) bool {
	if secret == "" || signatureHeader == "" {
		return false
	}
	if !strings.HasPrefix(signatureHeader, HeaderPrefix) {
		return false
	}
	provided, err := hex.DecodeString(signatureHeader[len(HeaderPrefix):])
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), provided)
}
