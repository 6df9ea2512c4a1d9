package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("Produces algorithm:salt:hash format", func(t *testing.T) {
		// Given: A plain password
		// When: Hashing it
		stored, err := HashPassword("secret123")

		// Then: The stored form has three colon-separated parts
		require.NoError(t, err)
		parts := strings.Split(stored, ":")
		require.Len(t, parts, 3)
		assert.Equal(t, "sha256", parts[0])
		assert.Len(t, parts[1], saltLength*2)
		assert.Len(t, parts[2], hashKeyLength*2)
	})

	t.Run("Same password hashes differently each time", func(t *testing.T) {
		// Given: One password hashed twice
		first, err := HashPassword("secret123")
		require.NoError(t, err)
		second, err := HashPassword("secret123")
		require.NoError(t, err)

		// Then: The salts differ, so the stored forms differ
		assert.NotEqual(t, first, second)
	})
}

func TestVerifyPassword(t *testing.T) {
	t.Run("Accepts the original password", func(t *testing.T) {
		// Given: A stored hash
		stored, err := HashPassword("secret123")
		require.NoError(t, err)

		// Then: The original verifies, a wrong one does not
		assert.True(t, VerifyPassword("secret123", stored))
		assert.False(t, VerifyPassword("secret124", stored))
	})

	t.Run("Rejects malformed stored hashes", func(t *testing.T) {
		assert.False(t, VerifyPassword("secret123", ""))
		assert.False(t, VerifyPassword("secret123", "not-a-hash"))
		assert.False(t, VerifyPassword("secret123", "md5:abc:def"))
	})
}
