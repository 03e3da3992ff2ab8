// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/verdano/marketplace-api/internal/platform/sec"
)

/*
TestHasher_HashAndVerify checks the round-trip contract of password hashing.
*/
func TestHasher_HashAndVerify(t *testing.T) {
	hasher := sec.NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash is opaque: it never contains the plain text
	assert.NotContains(t, hash, "correct horse")

	assert.True(t, hasher.Verify("correct horse battery staple", hash))
	assert.False(t, hasher.Verify("wrong password", hash))
}

/*
TestHasher_SaltedHashesDiffer ensures two hashes of the same input never match.
*/
func TestHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := sec.NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both still verify
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

/*
TestHasher_MalformedHash verifies that garbage hashes are a mismatch, not a panic.
*/
func TestHasher_MalformedHash(t *testing.T) {
	hasher := sec.NewHasher(bcrypt.MinCost)

	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("anything", ""))
}

/*
TestNewHasher_CostClamping checks out-of-range costs fall back to the default.
*/
func TestNewHasher_CostClamping(t *testing.T) {
	tests := []struct {
		name string
		cost int
	}{
		{"below_min", bcrypt.MinCost - 3},
		{"above_max", bcrypt.MaxCost + 1},
		{"zero", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := sec.NewHasher(tt.cost)

			// Hashing must still work with the clamped cost
			hash, err := hasher.Hash("pw")
			require.NoError(t, err)
			assert.True(t, hasher.Verify("pw", hash))

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, bcrypt.DefaultCost, cost)
		})
	}
}
