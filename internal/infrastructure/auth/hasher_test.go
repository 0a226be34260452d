package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, hasher.Verify("password123", hash))
	assert.Error(t, hasher.Verify("wrong-password", hash))
}

func TestBcryptHasherRejectsMalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	assert.Error(t, hasher.Verify("password123", "not-a-bcrypt-hash"))
}

func TestBcryptHasherClampsInvalidCost(t *testing.T) {
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
