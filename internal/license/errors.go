// errors.go defines the closed error set for the license token lifecycle so
// callers can branch with errors.Is instead of matching message strings.
package license

import "errors"

var (
	// ErrSecretMissing is returned when a signer is constructed without a shared secret.
	ErrSecretMissing = errors.New("license: signing secret is not configured")

	// ErrCustomerIDRequired is returned when claims are canonicalized without a customer identifier.
	ErrCustomerIDRequired = errors.New("license: customer_id is required")

	// ErrInvalidExpiry is returned when expires_at is zero or not strictly in the future.
	ErrInvalidExpiry = errors.New("license: expires_at must be a future timestamp")

	// ErrExpiredAtSigning is returned when the stored expires_at has already elapsed at signing
	// time. This is an expected condition when re-deriving a token for an old license, not a bug.
	ErrExpiredAtSigning = errors.New("license: expires_at has already elapsed, cannot sign")

	// ErrInvalidSignature is returned when a token's signature does not verify against the secret.
	ErrInvalidSignature = errors.New("license: token signature is invalid")

	// ErrTokenExpired is returned when a token's embedded validity window has elapsed.
	// Unlike a signature failure, the decoded claims may still be surfaced for diagnostics.
	ErrTokenExpired = errors.New("license: token has expired")

	// ErrMalformedToken is returned when a token cannot be parsed at all.
	ErrMalformedToken = errors.New("license: token is malformed")
)
