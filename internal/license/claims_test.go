package license

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(30 * 24 * time.Hour)

	t.Run("first issuance stamps now", func(t *testing.T) {
		cs, err := Canonicalize("ACME-001", expires, []string{"core", "reports"}, time.Time{}, now)
		require.NoError(t, err)
		assert.Equal(t, "ACME-001", cs.CustomerID)
		assert.Equal(t, expires, cs.ExpiresAt)
		assert.Equal(t, []string{"core", "reports"}, cs.Features)
		assert.Equal(t, now, cs.IssuedAt)
	})

	t.Run("existing issued_at is reused verbatim", func(t *testing.T) {
		original := now.Add(-90 * 24 * time.Hour)
		cs, err := Canonicalize("ACME-001", expires, nil, original, now)
		require.NoError(t, err)
		assert.Equal(t, original, cs.IssuedAt)
	})

	t.Run("nil features become empty list", func(t *testing.T) {
		cs, err := Canonicalize("ACME-001", expires, nil, time.Time{}, now)
		require.NoError(t, err)
		require.NotNil(t, cs.Features)
		assert.Empty(t, cs.Features)
	})

	t.Run("input features are not aliased", func(t *testing.T) {
		input := []string{"core"}
		cs, err := Canonicalize("ACME-001", expires, input, time.Time{}, now)
		require.NoError(t, err)
		cs.Features[0] = "changed"
		assert.Equal(t, "core", input[0])
	})

	t.Run("missing customer_id", func(t *testing.T) {
		_, err := Canonicalize("", expires, nil, time.Time{}, now)
		assert.ErrorIs(t, err, ErrCustomerIDRequired)
	})

	t.Run("zero expiry", func(t *testing.T) {
		_, err := Canonicalize("ACME-001", time.Time{}, nil, time.Time{}, now)
		assert.ErrorIs(t, err, ErrInvalidExpiry)
	})

	t.Run("past expiry", func(t *testing.T) {
		_, err := Canonicalize("ACME-001", now.Add(-time.Minute), nil, time.Time{}, now)
		assert.ErrorIs(t, err, ErrInvalidExpiry)
	})

	t.Run("expiry equal to now is rejected", func(t *testing.T) {
		_, err := Canonicalize("ACME-001", now, nil, time.Time{}, now)
		assert.ErrorIs(t, err, ErrInvalidExpiry)
	})
}

func TestFeatureListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		fails bool
	}{
		{name: "array", input: `["core","reports"]`, want: []string{"core", "reports"}},
		{name: "scalar string wrapped", input: `"core"`, want: []string{"core"}},
		{name: "null becomes empty", input: `null`, want: []string{}},
		{name: "empty array", input: `[]`, want: []string{}},
		{name: "number rejected", input: `42`, fails: true},
		{name: "object rejected", input: `{"a":1}`, fails: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FeatureList
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, FeatureList(tt.want), f)
		})
	}
}

func TestFeatureListMarshal(t *testing.T) {
	var nilList FeatureList
	data, err := json.Marshal(nilList)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	data, err = json.Marshal(FeatureList{"core"})
	require.NoError(t, err)
	assert.Equal(t, `["core"]`, string(data))
}
