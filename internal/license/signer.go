// signer.go handles license token signing and verification with a shared
// HMAC-SHA256 secret.
package license

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload of a license token. The domain claims mirror the
// canonical ClaimSet as RFC 3339 strings; the registered exp/iat claims carry
// the enforceable validity window.
type Claims struct {
	CustomerID string   `json:"customer_id"`
	ExpiresAt  string   `json:"expires_at"`
	Features   []string `json:"features"`
	IssuedAt   string   `json:"issued_at"`
	jwt.RegisteredClaims
}

// Signer signs and verifies license tokens.
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer for the given shared secret. An empty secret is a
// configuration error and is rejected up front, before any request handling.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign produces a signed token for the claim set. The token's validity window
// is the whole number of seconds between now and the claim expiry, truncated
// downward; a window of zero or less means the license is already expired and
// returns ErrExpiredAtSigning.
func (s *Signer) Sign(cs ClaimSet, now time.Time) (string, error) {
	window := cs.ExpiresAt.Sub(now) / time.Second
	if window <= 0 {
		return "", fmt.Errorf("%w: expires_at %s", ErrExpiredAtSigning, cs.ExpiresAt.UTC().Format(time.RFC3339))
	}

	features := cs.Features
	if features == nil {
		features = []string{}
	}

	claims := &Claims{
		CustomerID: cs.CustomerID,
		ExpiresAt:  cs.ExpiresAt.UTC().Format(time.RFC3339),
		Features:   features,
		IssuedAt:   cs.IssuedAt.UTC().Format(time.RFC3339),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(window * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign license token: %w", err)
	}
	return signed, nil
}

// Verify parses and verifies a license token, mapping library failures onto
// the package error set. On ErrTokenExpired the decoded claims are still
// returned so callers can report which license expired.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			// The library still decodes the payload on expiry.
			if token != nil {
				if claims, ok := token.Claims.(*Claims); ok {
					return claims, ErrTokenExpired
				}
			}
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
