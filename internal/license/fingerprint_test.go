package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureHashDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cs, err := Canonicalize("ACME-001", now.Add(24*time.Hour), []string{"core"}, time.Time{}, now)
	require.NoError(t, err)

	first := SignatureHash(cs)
	second := SignatureHash(cs)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestSignatureHashIgnoresIssuedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(24 * time.Hour)

	a, err := Canonicalize("ACME-001", expires, []string{"core"}, now.Add(-time.Hour), now)
	require.NoError(t, err)
	b, err := Canonicalize("ACME-001", expires, []string{"core"}, now, now)
	require.NoError(t, err)

	assert.Equal(t, SignatureHash(a), SignatureHash(b))
}

func TestSignatureHashSensitiveToClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(24 * time.Hour)

	base, err := Canonicalize("ACME-001", expires, []string{"core"}, time.Time{}, now)
	require.NoError(t, err)
	otherCustomer, err := Canonicalize("ACME-002", expires, []string{"core"}, time.Time{}, now)
	require.NoError(t, err)
	otherFeatures, err := Canonicalize("ACME-001", expires, []string{"core", "reports"}, time.Time{}, now)
	require.NoError(t, err)

	assert.NotEqual(t, SignatureHash(base), SignatureHash(otherCustomer))
	assert.NotEqual(t, SignatureHash(base), SignatureHash(otherFeatures))
}

func TestTokenHash(t *testing.T) {
	assert.Len(t, TokenHash("any-token"), 64)
	assert.Equal(t, TokenHash("any-token"), TokenHash("any-token"))
	assert.NotEqual(t, TokenHash("any-token"), TokenHash("another-token"))
}
