// Package license implements the signed license token lifecycle: canonical
// claim construction, HMAC-SHA256 token signing and verification, structured
// validation results for client-facing checks, and the content fingerprints
// stored alongside each license record. The package is storage-free; persistence
// and HTTP concerns live in internal/services and internal/api.
package license

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClaimSet is the canonical claim set embedded in every license token.
type ClaimSet struct {
	CustomerID string
	ExpiresAt  time.Time
	Features   []string
	IssuedAt   time.Time
}

// Canonicalize builds the canonical claim set for a license.
//
// Features are normalized to a non-nil slice and copied so the caller's input
// is never aliased. expiresAt must be strictly after now. issuedAt is pinned:
// a zero value means first issuance and stamps now, a non-zero value is reused
// verbatim so re-derived tokens carry the original issuance time.
func Canonicalize(customerID string, expiresAt time.Time, features []string, issuedAt, now time.Time) (ClaimSet, error) {
	if customerID == "" {
		return ClaimSet{}, ErrCustomerIDRequired
	}
	if expiresAt.IsZero() {
		return ClaimSet{}, fmt.Errorf("%w: expires_at is not set", ErrInvalidExpiry)
	}
	if !expiresAt.After(now) {
		return ClaimSet{}, fmt.Errorf("%w: expires_at %s is not after %s",
			ErrInvalidExpiry, expiresAt.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}

	normalized := make([]string, len(features))
	copy(normalized, features)

	if issuedAt.IsZero() {
		issuedAt = now
	}

	return ClaimSet{
		CustomerID: customerID,
		ExpiresAt:  expiresAt.UTC(),
		Features:   normalized,
		IssuedAt:   issuedAt.UTC(),
	}, nil
}

// FeatureList decodes the feature claim from request payloads, accepting the
// loose shapes older clients send: a JSON array of strings, a single scalar
// string (wrapped into a one-element list), or null/absent (empty list).
type FeatureList []string

func (f *FeatureList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FeatureList{}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		*f = FeatureList(list)
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FeatureList{single}
		return nil
	}
	return fmt.Errorf("features must be a string or an array of strings")
}

// MarshalJSON renders a nil list as [] so stored and returned feature sets are
// always arrays.
func (f FeatureList) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(f))
}
