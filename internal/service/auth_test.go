package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Tokens(t *testing.T) {
	auth := NewAuthService("test-secret")

	t.Run("Round-trips the username claim", func(t *testing.T) {
		// Given: A token generated for a user
		token, err := auth.GenerateToken("alice")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		// When: Parsing the token back
		username, err := auth.ParseToken(token)

		// Then: The original username comes out
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("Rejects a token signed with another key", func(t *testing.T) {
		// Given: A token from a service with a different secret
		other := NewAuthService("other-secret")
		token, err := other.GenerateToken("alice")
		require.NoError(t, err)

		// When: Parsing it with the wrong key
		_, err = auth.ParseToken(token)

		// Then: Parsing fails
		require.Error(t, err)
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		_, err := auth.ParseToken("not.a.token")
		require.Error(t, err)
	})
}
