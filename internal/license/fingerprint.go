// fingerprint.go derives the content fingerprints stored with each license:
// a hash of the canonical claims for tamper detection and a hash of the issued
// token for correlation without retaining the token itself.
package license

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// canonicalClaims fixes the field set and order of the fingerprint input.
// issued_at is deliberately excluded so re-derived tokens for the same license
// fingerprint identically.
type canonicalClaims struct {
	CustomerID string   `json:"customer_id"`
	ExpiresAt  string   `json:"expires_at"`
	Features   []string `json:"features"`
}

// SignatureHash returns the SHA-256 hex digest of the canonical claims JSON.
func SignatureHash(cs ClaimSet) string {
	features := cs.Features
	if features == nil {
		features = []string{}
	}
	payload, _ := json.Marshal(canonicalClaims{
		CustomerID: cs.CustomerID,
		ExpiresAt:  cs.ExpiresAt.UTC().Format(time.RFC3339),
		Features:   features,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// TokenHash returns the SHA-256 hex digest of a raw token string.
func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
