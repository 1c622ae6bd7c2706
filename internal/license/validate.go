// validate.go turns token verification into a structured, non-throwing result
// for client-facing validation checks.
package license

import (
	"math"
	"time"
)

// ValidationResult is the structured outcome of validating a license token.
// Invalid tokens carry a reason; expired tokens additionally carry whatever
// claims could be decoded so the caller can see which license lapsed.
type ValidationResult struct {
	Valid         bool     `json:"valid"`
	Error         string   `json:"error,omitempty"`
	CustomerID    string   `json:"customer_id,omitempty"`
	ExpiresAt     string   `json:"expires_at,omitempty"`
	IssuedAt      string   `json:"issued_at,omitempty"`
	Features      []string `json:"features,omitempty"`
	DaysRemaining int      `json:"days_remaining,omitempty"`
}

// Validate checks a license token and reports the outcome as data. It never
// returns an error; every failure mode maps to a ValidationResult with Valid
// false and a human-readable reason.
func (s *Signer) Validate(tokenString string, now time.Time) ValidationResult {
	if tokenString == "" {
		return ValidationResult{Valid: false, Error: "license key is required"}
	}

	claims, err := s.Verify(tokenString)
	switch err {
	case nil:
	case ErrTokenExpired:
		result := ValidationResult{Valid: false, Error: "license has expired"}
		if claims != nil {
			result.CustomerID = claims.CustomerID
			result.ExpiresAt = claims.ExpiresAt
			result.IssuedAt = claims.IssuedAt
			result.Features = claims.Features
		}
		return result
	case ErrInvalidSignature:
		return ValidationResult{Valid: false, Error: "invalid license key signature"}
	default:
		return ValidationResult{Valid: false, Error: "malformed license key"}
	}

	if claims.CustomerID == "" || claims.ExpiresAt == "" {
		return ValidationResult{Valid: false, Error: "license key is missing required fields"}
	}

	expiresAt, err := time.Parse(time.RFC3339, claims.ExpiresAt)
	if err != nil {
		return ValidationResult{Valid: false, Error: "license key is missing required fields"}
	}

	// The registered exp claim is floored to whole seconds at signing, so the
	// domain expiry can lapse fractionally before the token does.
	if !expiresAt.After(now) {
		return ValidationResult{
			Valid:      false,
			Error:      "license has expired",
			CustomerID: claims.CustomerID,
			ExpiresAt:  claims.ExpiresAt,
			IssuedAt:   claims.IssuedAt,
			Features:   claims.Features,
		}
	}

	return ValidationResult{
		Valid:         true,
		CustomerID:    claims.CustomerID,
		ExpiresAt:     claims.ExpiresAt,
		IssuedAt:      claims.IssuedAt,
		Features:      claims.Features,
		DaysRemaining: int(math.Ceil(expiresAt.Sub(now).Hours() / 24)),
	}
}
