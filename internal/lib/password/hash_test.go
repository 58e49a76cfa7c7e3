package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRoundTrip(t *testing.T) {
	hash, err := GetHash("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, CompareHash(hash, "password123"))
	assert.Error(t, CompareHash(hash, "wrongpass"))
	assert.Error(t, CompareHash("not-a-hash", "password123"))
}

func TestGetHash_Salted(t *testing.T) {
	first, err := GetHash("password123")
	require.NoError(t, err)
	second, err := GetHash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
