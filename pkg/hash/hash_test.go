package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	digest, err := h.HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", digest)
	assert.True(t, h.CheckPassword(digest, "pw123"))
	assert.False(t, h.CheckPassword(digest, "pw124"))
	assert.False(t, Malformed(digest))
}

func TestHasher_SaltDiffersAcrossCalls(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	a, err := h.HashPassword("same")
	require.NoError(t, err)
	b, err := h.HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.CheckPassword(a, "same"))
	assert.True(t, h.CheckPassword(b, "same"))
}

func TestHasher_MalformedDigestNeverMatches(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.CheckPassword("not-a-bcrypt-hash", "anything"))
	assert.True(t, Malformed("not-a-bcrypt-hash"))
}

func TestNewHasher_DefaultCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
}

func TestHasher_InvalidCost(t *testing.T) {
	t.Parallel()

	_, err := (&Hasher{Cost: bcrypt.MaxCost + 1}).HashPassword("pw")
	require.Error(t, err)
}
